package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/flicapp/flicapp/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user with the given role. The password is
// "secret123".
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     name,
		FullNameCI:   text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateProviderRequest inserts a request for u with the given status.
func (f *Fixtures) CreateProviderRequest(ctx context.Context, u models.User, category, status string) models.ProviderRequest {
	f.t.Helper()

	now := time.Now().UTC()
	pr := models.ProviderRequest{
		ID:              primitive.NewObjectID(),
		UserID:          u.ID,
		UserName:        u.FullName,
		UserEmail:       u.Email,
		ServiceCategory: category,
		Description:     "Atendo na zona sul.",
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("provider_requests").InsertOne(ctx, pr); err != nil {
		f.t.Fatalf("failed to create test provider request: %v", err)
	}
	return pr
}

// CreateAppointment inserts an appointment between client and provider.
func (f *Fixtures) CreateAppointment(ctx context.Context, client, provider models.User, service string, when time.Time, priceCents int64, status string) models.Appointment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Appointment{
		ID:            primitive.NewObjectID(),
		ClientID:      client.ID,
		ClientName:    client.FullName,
		ProviderID:    provider.ID,
		ProviderName:  provider.FullName,
		Service:       service,
		ScheduledDate: when.UTC(),
		PriceCents:    priceCents,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("appointments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test appointment: %v", err)
	}
	return a
}
