package bootstrap

import (
	"strings"
	"testing"
	"time"

	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/domain/models"
	"github.com/flicapp/flicapp/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "Admin@FlicApp.test", "s3cret-pass", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	u, err := userstore.New(db).GetByEmail(ctx, "admin@flicapp.test")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}
	if !u.IsActive() {
		t.Error("expected active admin")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("password hash does not match: %v", err)
	}
}

func TestEnsureAdmin_PromotesAndEnablesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateUser(ctx, "Eva Existente", "eva@flicapp.test", models.RoleClient)
	users := userstore.New(db)
	if err := users.SetStatus(ctx, existing.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	// No password: an existing account keeps its own.
	if err := ensureAdmin(ctx, DBDeps{MongoDatabase: db}, existing.Email, "", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	u, err := users.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}
	if u.Status != models.StatusActive {
		t.Errorf("status = %q, want active", u.Status)
	}
	if u.PasswordHash != existing.PasswordHash {
		t.Error("existing password hash was replaced")
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	for i := 0; i < 2; i++ {
		if err := ensureAdmin(ctx, deps, "root@flicapp.test", "s3cret-pass", testLogger()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	counts, err := userstore.New(db).Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Admins != 1 {
		t.Errorf("admins = %d, want 1", counts.Admins)
	}
}

func TestEnsureAdmin_MissingWithoutPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := ensureAdmin(ctx, DBDeps{MongoDatabase: db}, "nobody@flicapp.test", "", testLogger())
	if err == nil || !strings.Contains(err.Error(), "admin_password") {
		t.Fatalf("err = %v, want admin_password error", err)
	}
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "flicapp",
		MongoMaxPoolSize: 100,
		MongoMinPoolSize: 10,
		MongoTimeout:     10 * time.Second,
		SessionKey:       "0123456789abcdef0123456789abcdef",
		SessionMaxAge:    24 * time.Hour,
		AuditLogAuth:     "all",
		AuditLogAdmin:    "db",
		TablePageSize:    10,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"bad uri", func(c *AppConfig) { c.MongoURI = "postgres://x" }, "MongoDB URI"},
		{"no database", func(c *AppConfig) { c.MongoDatabase = "" }, "mongo_database"},
		{"pool sizes", func(c *AppConfig) { c.MongoMinPoolSize = 200 }, "mongo_min_pool_size"},
		{"page size zero", func(c *AppConfig) { c.TablePageSize = 0 }, "table_page_size"},
		{"page size too large", func(c *AppConfig) { c.TablePageSize = 1000 }, "table_page_size"},
		{"audit dest", func(c *AppConfig) { c.AuditLogAdmin = "stdout" }, "audit_log_admin"},
		{"admin email", func(c *AppConfig) { c.AdminEmail = "not-an-email" }, "admin_email"},
		{"short admin password", func(c *AppConfig) {
			c.AdminEmail = "root@flicapp.test"
			c.AdminPassword = "123"
		}, "admin_password"},
		{"admin without password", func(c *AppConfig) { c.AdminEmail = "root@flicapp.test" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(nil, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
