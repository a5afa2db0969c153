package txn_test

import (
	"context"
	"errors"
	"testing"

	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/txn"
	"github.com/flicapp/flicapp/internal/domain/models"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.uber.org/zap"
)

func TestRun_ApproveAndPromote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Ana Admin", "ana@flicapp.test", models.RoleAdmin)
	client := fx.CreateUser(ctx, "Carla Cliente", "carla@flicapp.test", models.RoleClient)
	pr := fx.CreateProviderRequest(ctx, client, "Eletricista", models.RequestPending)

	requests := requeststore.New(db)
	users := userstore.New(db)

	// Works on a replica set and, through the fallback, on a standalone server.
	err := txn.Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		if _, err := requests.Approve(ctx, pr.ID, admin.ID); err != nil {
			return err
		}
		return users.SetRole(ctx, client.ID, models.RoleProvider)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := requests.GetByID(ctx, pr.ID)
	if err != nil {
		t.Fatalf("GetByID request: %v", err)
	}
	if got.Status != models.RequestApproved {
		t.Errorf("request status = %q, want %q", got.Status, models.RequestApproved)
	}
	u, err := users.GetByID(ctx, client.ID)
	if err != nil {
		t.Fatalf("GetByID user: %v", err)
	}
	if u.Role != models.RoleProvider {
		t.Errorf("user role = %q, want %q", u.Role, models.RoleProvider)
	}
}

func TestRun_DomainErrorIsReturnedAndStopsPromotion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Ana Admin", "ana@flicapp.test", models.RoleAdmin)
	client := fx.CreateUser(ctx, "Carla Cliente", "carla@flicapp.test", models.RoleClient)
	pr := fx.CreateProviderRequest(ctx, client, "Encanador", models.RequestRejected)

	requests := requeststore.New(db)
	users := userstore.New(db)

	err := txn.Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		if _, err := requests.Approve(ctx, pr.ID, admin.ID); err != nil {
			return err
		}
		return users.SetRole(ctx, client.ID, models.RoleProvider)
	})
	if !errors.Is(err, requeststore.ErrNotPending) {
		t.Fatalf("Run: expected ErrNotPending, got %v", err)
	}
	if txn.IsNotSupported(err) {
		t.Error("ErrNotPending must not be treated as a missing transaction feature")
	}

	u, err := users.GetByID(ctx, client.ID)
	if err != nil {
		t.Fatalf("GetByID user: %v", err)
	}
	if u.Role != models.RoleClient {
		t.Errorf("user role = %q, want %q", u.Role, models.RoleClient)
	}
}
