package requeststore_test

import (
	"errors"
	"sync"
	"testing"

	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	"github.com/flicapp/flicapp/internal/app/system/indexes"
	"github.com/flicapp/flicapp/internal/domain/models"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ana Souza", "ana@example.com", models.RoleClient)

	pr, err := store.Create(ctx, u, "  Limpeza ", " Faxina residencial. ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if pr.Status != models.RequestPending {
		t.Errorf("Status = %q, want PENDING", pr.Status)
	}
	if pr.ServiceCategory != "Limpeza" || pr.Description != "Faxina residencial." {
		t.Errorf("fields not trimmed: %+v", pr)
	}
	if pr.UserName != "Ana Souza" || pr.UserEmail != "ana@example.com" {
		t.Errorf("applicant not copied: %+v", pr)
	}

	if _, err := store.Create(ctx, u, "", "x"); err == nil {
		t.Error("expected error for empty category")
	}
}

func TestStore_Create_OnePendingPerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	u := fixtures.CreateUser(ctx, "Beto", "beto@example.com", models.RoleClient)
	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com", models.RoleAdmin)

	first, err := store.Create(ctx, u, "Elétrica", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, u, "Hidráulica", ""); !errors.Is(err, requeststore.ErrPendingExists) {
		t.Fatalf("expected ErrPendingExists, got %v", err)
	}

	// Once reviewed, the user may apply again.
	if _, err := store.Reject(ctx, first.ID, admin.ID, "Sem documentos"); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if _, err := store.Create(ctx, u, "Hidráulica", ""); err != nil {
		t.Errorf("Create after rejection failed: %v", err)
	}
}

func TestStore_Approve(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Carla", "carla@example.com", models.RoleClient)
	admin := fixtures.CreateUser(ctx, "Admin", "admin@example.com", models.RoleAdmin)
	pr := fixtures.CreateProviderRequest(ctx, u, "Jardinagem", models.RequestPending)

	got, err := store.Approve(ctx, pr.ID, admin.ID)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if got.Status != models.RequestApproved {
		t.Errorf("Status = %q, want APPROVED", got.Status)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != admin.ID || got.ReviewedAt == nil {
		t.Errorf("review metadata not set: %+v", got)
	}

	if _, err := store.Approve(ctx, pr.ID, admin.ID); !errors.Is(err, requeststore.ErrNotPending) {
		t.Errorf("second Approve: expected ErrNotPending, got %v", err)
	}
	if _, err := store.Reject(ctx, pr.ID, admin.ID, "tarde demais"); !errors.Is(err, requeststore.ErrNotPending) {
		t.Errorf("Reject after Approve: expected ErrNotPending, got %v", err)
	}
	if _, err := store.Approve(ctx, primitive.NewObjectID(), admin.ID); !errors.Is(err, requeststore.ErrNotFound) {
		t.Errorf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func TestStore_Reject_RequiresReason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Dani", "dani@example.com", models.RoleClient)
	pr := fixtures.CreateProviderRequest(ctx, u, "Pintura", models.RequestPending)

	if _, err := store.Reject(ctx, pr.ID, primitive.NewObjectID(), "   "); !errors.Is(err, requeststore.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}

	got, err := store.Reject(ctx, pr.ID, primitive.NewObjectID(), " Portfólio insuficiente ")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if got.Status != models.RequestRejected || got.RejectionReason != "Portfólio insuficiente" {
		t.Errorf("unexpected request after reject: %+v", got)
	}
}

func TestStore_ConcurrentReviews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Edu", "edu@example.com", models.RoleClient)
	pr := fixtures.CreateProviderRequest(ctx, u, "Mudanças", models.RequestPending)

	const reviewers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < reviewers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = store.Approve(ctx, pr.ID, primitive.NewObjectID())
			} else {
				_, err = store.Reject(ctx, pr.ID, primitive.NewObjectID(), "não")
			}
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else if !errors.Is(err, requeststore.ErrNotPending) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if success != 1 {
		t.Errorf("expected exactly one review to win, got %d", success)
	}
}

func TestStore_ListAndCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := requeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateUser(ctx, "A", "a@example.com", models.RoleClient)
	b := fixtures.CreateUser(ctx, "B", "b@example.com", models.RoleClient)
	fixtures.CreateProviderRequest(ctx, a, "Limpeza", models.RequestPending)
	fixtures.CreateProviderRequest(ctx, a, "Pintura", models.RequestRejected)
	fixtures.CreateProviderRequest(ctx, b, "Elétrica", models.RequestApproved)

	all, err := store.List(ctx, requeststore.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 requests, got %d", len(all))
	}

	pending, err := store.List(ctx, requeststore.ListFilter{Status: "pending"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("expected 1 pending request, got %d", len(pending))
	}

	mine, err := store.List(ctx, requeststore.ListFilter{UserID: &a.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 requests for a, got %d", len(mine))
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts != (requeststore.StatusCounts{Pending: 1, Approved: 1, Rejected: 1}) {
		t.Errorf("Counts = %+v", counts)
	}

	if _, err := store.LatestForUser(ctx, primitive.NewObjectID()); !errors.Is(err, requeststore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.LatestForUser(ctx, b.ID); err != nil {
		t.Errorf("LatestForUser failed: %v", err)
	}
}
