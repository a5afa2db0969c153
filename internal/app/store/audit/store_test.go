package audit_test

import (
	"testing"
	"time"

	"github.com/flicapp/flicapp/internal/app/store/audit"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	event := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
}

func TestStore_Log_AutoSetsCreatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	if err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		IP:        "192.168.1.1",
		Success:   true,
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	after := time.Now().Add(time.Second)

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].CreatedAt.Before(before) || events[0].CreatedAt.After(after) {
		t.Errorf("expected created_at to be set to current time, got %v", events[0].CreatedAt)
	}
}

func TestStore_GetByTarget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	reqID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	for _, ev := range []audit.Event{
		{Category: audit.CategoryRequest, EventType: audit.EventRequestSubmitted, TargetID: &reqID, Success: true},
		{Category: audit.CategoryRequest, EventType: audit.EventRequestRejected, TargetID: &reqID, ActorID: &actor, Success: true,
			Details: map[string]string{"reason": "Documentação incompleta"}},
		{Category: audit.CategoryRequest, EventType: audit.EventRequestApproved, TargetID: &other, ActorID: &actor, Success: true},
	} {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.GetByTarget(ctx, reqID, 10)
	if err != nil {
		t.Fatalf("GetByTarget failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType != audit.EventRequestRejected {
		t.Errorf("expected newest first, got %s", events[0].EventType)
	}
	if events[0].Details["reason"] != "Documentação incompleta" {
		t.Errorf("details not stored: %v", events[0].Details)
	}
}

func TestStore_GetByUser_Limit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginSuccess,
			UserID:    &userID,
			Success:   true,
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.GetByUser(ctx, userID, 3)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}

func TestStore_GetRecent_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected 0 events, got %d", len(events))
	}
}

func TestStore_Query_ByCategoryAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, ev := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLogout, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventUserDisabled, Success: true},
	} {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 auth events, got %d", len(events))
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{EventType: audit.EventUserDisabled})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 user_disabled event, got %d", n)
	}
}

func TestStore_Query_TimeRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := time.Now().Add(-48 * time.Hour).UTC()
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, CreatedAt: old}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	since := time.Now().Add(-time.Hour)
	events, err := store.Query(ctx, audit.QueryFilter{StartTime: &since})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 recent event, got %d", len(events))
	}
}
