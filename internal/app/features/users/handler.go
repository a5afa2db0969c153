// internal/app/features/users/handler.go
package users

import (
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin users table.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Tables   *tablestate.Manager
	users    *userstore.Store
	pageSize int
}

// NewHandler constructs the users feature handler. A pageSize of zero uses
// the table default.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, tables *tablestate.Manager, pageSize int, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Tables:   tables,
		users:    userstore.New(db),
		pageSize: pageSize,
	}
}
