// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/app/system/auth"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Tables     *tablestate.Manager
}

// NewHandler builds the logout handler. audit and tables may be nil.
func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, tables *tablestate.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Tables:     tables,
	}
}

// ServeLogout handles GET /logout. The user's saved table views are
// discarded so the next sign-in starts from clean tables.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		h.AuditLog.Logout(ctx, r, u.ID)
		if uid, err := primitive.ObjectIDFromHex(u.ID); err == nil && h.Tables != nil {
			if err := h.Tables.Store().Delete(ctx, uid, ""); err != nil {
				h.Log.Warn("logout: clear table states", zap.Error(err), zap.String("user_id", u.ID))
			}
		}
		cancel()
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
