package validators_test

import (
	"testing"
	"time"

	"github.com/flicapp/flicapp/internal/app/system/validators"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "provider_requests", "appointments", "audit_events", "table_states"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		name    string
		doc     bson.M
		wantErr bool
	}{
		{"missing required fields", bson.M{"email": "a@b.co"}, true},
		{"valid client", bson.M{"full_name": "Ana", "email": "ana@flicapp.test", "role": "client", "status": "active"}, false},
		{"invalid role", bson.M{"full_name": "Ana", "email": "ana2@flicapp.test", "role": "member", "status": "active"}, true},
		{"invalid status", bson.M{"full_name": "Ana", "email": "ana3@flicapp.test", "role": "client", "status": "gone"}, true},
		{"blank name", bson.M{"full_name": "   ", "email": "ana4@flicapp.test", "role": "client", "status": "active"}, true},
		{"bad cep", bson.M{
			"full_name": "Ana", "email": "ana5@flicapp.test", "role": "client", "status": "active",
			"address": bson.M{"zip_code": "01310-100", "state": "SP"},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection("users").InsertOne(ctx, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertOne err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProviderRequestsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	c := db.Collection("provider_requests")
	if _, err := c.InsertOne(ctx, bson.M{"user_id": primitive.NewObjectID(), "service_category": "Elétrica", "status": "PENDING"}); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"user_id": primitive.NewObjectID(), "service_category": "Elétrica", "status": "pending"}); err == nil {
		t.Error("expected lower-case status to be rejected")
	}
}

func TestAppointmentsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	base := bson.M{
		"client_id":      primitive.NewObjectID(),
		"provider_id":    primitive.NewObjectID(),
		"service":        "Limpeza",
		"scheduled_date": time.Now(),
		"price_cents":    int64(15000),
		"status":         "scheduled",
	}
	c := db.Collection("appointments")
	if _, err := c.InsertOne(ctx, base); err != nil {
		t.Errorf("valid appointment rejected: %v", err)
	}

	bad := bson.M{}
	for k, v := range base {
		bad[k] = v
	}
	bad["rating"] = 7
	if _, err := c.InsertOne(ctx, bad); err == nil {
		t.Error("expected rating 7 to be rejected")
	}
}
