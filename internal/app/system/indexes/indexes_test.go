package indexes_test

import (
	"testing"
	"time"

	"github.com/flicapp/flicapp/internal/app/system/indexes"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":             {"uniq_users_email", "idx_users_role_status_fullnameci"},
		"provider_requests": {"uniq_provider_requests_user_pending", "idx_provider_requests_status_created"},
		"appointments":      {"idx_appointments_client_date", "idx_appointments_provider_date", "idx_appointments_status"},
		"audit_events":      {"idx_audit_created", "idx_audit_category_created", "idx_audit_target_created"},
		"table_states":      {"uniq_table_states_user_table", "ttl_table_states_updated"},
	}
	for coll, want := range expected {
		names := indexNames(t, db, coll)
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q to exist on %s", name, coll)
			}
		}
	}
}

func TestProviderRequests_OnePendingPerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	c := db.Collection("provider_requests")
	userID := primitive.NewObjectID()
	now := time.Now()

	if _, err := c.InsertOne(ctx, bson.M{"user_id": userID, "status": "REJECTED", "created_at": now}); err != nil {
		t.Fatalf("insert rejected: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"user_id": userID, "status": "PENDING", "created_at": now}); err != nil {
		t.Fatalf("insert first pending: %v", err)
	}
	_, err := c.InsertOne(ctx, bson.M{"user_id": userID, "status": "PENDING", "created_at": now})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error for second pending request, got %v", err)
	}
}
