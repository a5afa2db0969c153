// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB           *mongo.Database
	Log          *zap.Logger
	users        *userstore.Store
	requests     *requeststore.Store
	appointments *appointmentstore.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		users:        userstore.New(db),
		requests:     requeststore.New(db),
		appointments: appointmentstore.New(db),
	}
}

// ServeDashboard dispatches to the view for the signed-in user's role.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	switch {
	case authz.IsAdmin(r):
		h.ServeAdmin(w, r)
	case authz.IsProvider(r):
		h.ServeProvider(w, r)
	case authz.IsClient(r):
		h.ServeClient(w, r)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
