// internal/app/store/providerrequests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/flicapp/flicapp/internal/app/system/normalize"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no request matches.
	ErrNotFound = errors.New("provider request not found")
	// ErrNotPending is returned when a review targets a request that has
	// already been approved or rejected.
	ErrNotPending = errors.New("provider request is no longer pending")
	// ErrPendingExists is returned when the user already has a pending request.
	ErrPendingExists = errors.New("user already has a pending provider request")
	// ErrReasonRequired is returned when a rejection carries no reason.
	ErrReasonRequired = errors.New("a rejection reason is required")
	errCategoryNeeded = errors.New("service category is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("provider_requests")}
}

// Create submits a new PENDING request for the applicant. At most one
// pending request per user is allowed; the partial unique index on
// user_id enforces it.
func (s *Store) Create(ctx context.Context, applicant models.User, category, description string) (models.ProviderRequest, error) {
	category = normalize.Name(category)
	if category == "" {
		return models.ProviderRequest{}, errCategoryNeeded
	}
	now := time.Now().UTC()
	pr := models.ProviderRequest{
		ID:              primitive.NewObjectID(),
		UserID:          applicant.ID,
		UserName:        applicant.FullName,
		UserEmail:       applicant.Email,
		ServiceCategory: category,
		Description:     strings.TrimSpace(description),
		Status:          models.RequestPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.c.InsertOne(ctx, pr); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ProviderRequest{}, ErrPendingExists
		}
		return models.ProviderRequest{}, err
	}
	return pr, nil
}

// GetByID loads one request.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProviderRequest, error) {
	var pr models.ProviderRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&pr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// ListFilter narrows List. Empty fields match everything.
type ListFilter struct {
	Status string
	UserID *primitive.ObjectID
}

// List returns requests newest first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.ProviderRequest, error) {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = normalize.RequestStatus(f.Status)
	}
	if f.UserID != nil {
		q["user_id"] = *f.UserID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ProviderRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestForUser returns the user's most recent request, or ErrNotFound.
func (s *Store) LatestForUser(ctx context.Context, userID primitive.ObjectID) (*models.ProviderRequest, error) {
	var pr models.ProviderRequest
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&pr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// Approve moves a PENDING request to APPROVED and returns the updated
// request. The caller promotes the applicant to provider.
func (s *Store) Approve(ctx context.Context, id, reviewer primitive.ObjectID) (*models.ProviderRequest, error) {
	return s.review(ctx, id, bson.M{
		"status":      models.RequestApproved,
		"reviewed_by": reviewer,
	})
}

// Reject moves a PENDING request to REJECTED with the given reason.
func (s *Store) Reject(ctx context.Context, id, reviewer primitive.ObjectID, reason string) (*models.ProviderRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	return s.review(ctx, id, bson.M{
		"status":           models.RequestRejected,
		"reviewed_by":      reviewer,
		"rejection_reason": reason,
	})
}

// review applies set only while the request is still PENDING, so two
// concurrent reviews cannot both succeed.
func (s *Store) review(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.ProviderRequest, error) {
	now := time.Now().UTC()
	set["reviewed_at"] = now
	set["updated_at"] = now

	var pr models.ProviderRequest
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&pr)
	if err == nil {
		return &pr, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, gerr := s.GetByID(ctx, id); gerr != nil {
		return nil, gerr
	}
	return nil, ErrNotPending
}

// StatusCounts is the number of requests per status.
type StatusCounts struct {
	Pending  int64
	Approved int64
	Rejected int64
}

// Counts aggregates requests by status for the admin dashboard.
func (s *Store) Counts(ctx context.Context) (StatusCounts, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return StatusCounts{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return StatusCounts{}, err
	}
	var out StatusCounts
	for _, r := range rows {
		switch r.Status {
		case models.RequestPending:
			out.Pending = r.N
		case models.RequestApproved:
			out.Approved = r.N
		case models.RequestRejected:
			out.Rejected = r.N
		}
	}
	return out, nil
}
