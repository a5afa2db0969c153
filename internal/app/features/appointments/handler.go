// internal/app/features/appointments/handler.go
package appointments

import (
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the appointments table. Admins see every appointment;
// providers and clients see their own.
type Handler struct {
	Log          *zap.Logger
	ErrLog       *uierrors.ErrorLogger
	AuditLog     *auditlog.Logger
	Tables       *tablestate.Manager
	appointments *appointmentstore.Store
	pageSize     int
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, tables *tablestate.Manager, pageSize int, logger *zap.Logger) *Handler {
	return &Handler{
		Log:          logger,
		ErrLog:       errLog,
		AuditLog:     audit,
		Tables:       tables,
		appointments: appointmentstore.New(db),
		pageSize:     pageSize,
	}
}
