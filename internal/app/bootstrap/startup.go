// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/flicapp/flicapp/internal/app/resources"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minAdminPasswordLen = 8

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			logger.Error("admin bootstrap failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// ensureAdmin makes the account with the given e-mail an active admin.
// An existing account is promoted and keeps its password; a missing one is
// created with password, which must then be set.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role != models.RoleAdmin {
			if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
				return fmt.Errorf("promote %s: %w", email, err)
			}
			logger.Info("promoted existing user to admin", zap.String("email", u.Email))
		}
		if !u.IsActive() {
			if err := users.SetStatus(ctx, u.ID, models.StatusActive); err != nil {
				return fmt.Errorf("enable %s: %w", email, err)
			}
			logger.Info("re-enabled admin account", zap.String("email", u.Email))
		}
		return nil

	case !errors.Is(err, userstore.ErrNotFound):
		return fmt.Errorf("look up %s: %w", email, err)
	}

	if password == "" {
		return fmt.Errorf("admin %s does not exist and admin_password is empty", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	created, err := users.Create(ctx, models.User{
		FullName:     "Administrador",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	})
	if err != nil {
		return fmt.Errorf("create admin %s: %w", email, err)
	}
	logger.Info("created admin account", zap.String("email", created.Email), zap.String("id", created.ID.Hex()))
	return nil
}
