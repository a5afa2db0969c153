// internal/app/features/providerrequests/handler.go
package providerrequests

import (
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin review table and the client submission form.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Tables   *tablestate.Manager
	requests *requeststore.Store
	users    *userstore.Store
	pageSize int
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, tables *tablestate.Manager, pageSize int, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: audit,
		Tables:   tables,
		requests: requeststore.New(db),
		users:    userstore.New(db),
		pageSize: pageSize,
	}
}
