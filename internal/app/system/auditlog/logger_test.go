package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/flicapp/flicapp/internal/app/store/audit"
	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	// no-ops, not panics
	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "a@b.c")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
	logger.UserDisabled(ctx, req, "", primitive.NewObjectID())
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:  auditlog.DestOff,
		Admin: auditlog.DestOff,
	})

	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
	})

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_Log_ConfigLogOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: auditlog.DestLog})
	logger.UserEnabled(ctx, httptest.NewRequest("POST", "/", nil), "", userID)

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected 0 stored events for 'log', got %d", len(events))
	}
}

func TestLogger_Log_DefaultsToAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{})
	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
	})

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}

func TestLogger_LoginSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DestDB})
	userID := primitive.NewObjectID()
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")

	logger.LoginSuccess(ctx, req, userID, "ana@flicapp.test")

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.EventType != audit.EventLoginSuccess || !e.Success {
		t.Errorf("unexpected event %+v", e)
	}
	if e.IP != "203.0.113.9" {
		t.Errorf("IP = %q, want first forwarded hop", e.IP)
	}
	if e.UserAgent != "test-agent" {
		t.Errorf("UserAgent = %q", e.UserAgent)
	}
	if e.Details["email"] != "ana@flicapp.test" {
		t.Errorf("Details = %v", e.Details)
	}
}

func TestLogger_LoginFailedUserNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DestDB})
	logger.LoginFailedUserNotFound(ctx, httptest.NewRequest("POST", "/login", nil), "ghost@flicapp.test")

	events, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailedUserNotFound})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Success {
		t.Error("failed login recorded as success")
	}
	if events[0].FailureReason != "user not found" {
		t.Errorf("FailureReason = %q", events[0].FailureReason)
	}
}

func TestLogger_RequestRejected_TargetsRequest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: auditlog.DestDB})
	actor := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	reqID := primitive.NewObjectID()

	logger.RequestRejected(ctx, httptest.NewRequest("POST", "/", nil), actor.Hex(), userID, reqID, "incomplete documents")

	events, err := store.GetByTarget(ctx, reqID, 10)
	if err != nil {
		t.Fatalf("GetByTarget failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Category != audit.CategoryRequest {
		t.Errorf("Category = %q", e.Category)
	}
	if e.ActorID == nil || *e.ActorID != actor {
		t.Errorf("ActorID = %v, want %s", e.ActorID, actor.Hex())
	}
	if e.Details["reason"] != "incomplete documents" {
		t.Errorf("Details = %v", e.Details)
	}
}

func TestLogger_AppointmentRated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: auditlog.DestDB})
	apptID := primitive.NewObjectID()
	logger.AppointmentRated(ctx, httptest.NewRequest("POST", "/", nil), primitive.NewObjectID().Hex(), apptID, 4)

	events, err := store.GetByTarget(ctx, apptID, 10)
	if err != nil {
		t.Fatalf("GetByTarget failed: %v", err)
	}
	if len(events) != 1 || events[0].Details["rating"] != "4" {
		t.Fatalf("unexpected events %+v", events)
	}
}
