package tablestatestore_test

import (
	"testing"

	tablestatestore "github.com/flicapp/flicapp/internal/app/store/tablestates"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/indexes"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_LoadMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tablestatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st, err := store.Load(ctx, primitive.NewObjectID(), "users")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if st.Page != 0 || st.Search != "" || len(st.Selected) != 0 {
		t.Errorf("expected zero state, got %+v", st)
	}
}

func TestStore_SaveLoad(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tablestatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	uid := primitive.NewObjectID()
	want := datatable.State{
		Search:    "ana",
		Filter:    "PENDING",
		SortField: "createdAt",
		SortOrder: datatable.Desc,
		Page:      2,
		Selected:  []string{"a", "b"},
	}
	if err := store.Save(ctx, uid, "provider-requests", want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Saving again updates in place rather than violating the unique index.
	want.Page = 3
	if err := store.Save(ctx, uid, "provider-requests", want); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := store.Load(ctx, uid, "provider-requests")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Search != want.Search || got.Filter != want.Filter || got.SortField != want.SortField ||
		got.SortOrder != want.SortOrder || got.Page != 3 || len(got.Selected) != 2 {
		t.Errorf("Load = %+v, want %+v", got, want)
	}

	n, err := db.Collection("table_states").CountDocuments(ctx, map[string]any{"user_id": uid})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 document, got %d", n)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := tablestatestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uid := primitive.NewObjectID()
	for _, table := range []string{"users", "appointments"} {
		if err := store.Save(ctx, uid, table, datatable.State{Page: 2}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := store.Delete(ctx, uid, "users"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	st, _ := store.Load(ctx, uid, "users")
	if st.Page != 0 {
		t.Errorf("users state should be gone, got %+v", st)
	}
	st, _ = store.Load(ctx, uid, "appointments")
	if st.Page != 2 {
		t.Errorf("appointments state should remain, got %+v", st)
	}

	if err := store.Delete(ctx, uid, ""); err != nil {
		t.Fatalf("Delete all failed: %v", err)
	}
	st, _ = store.Load(ctx, uid, "appointments")
	if st.Page != 0 {
		t.Errorf("expected all state gone, got %+v", st)
	}
}
