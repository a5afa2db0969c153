// internal/app/features/users/routes.go
package users

import (
	"github.com/flicapp/flicapp/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the admin users table.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/", h.ServeList)
	r.Get("/export/{format}", h.ServeExport)
	r.Post("/bulk/{action}", h.HandleBulk)
	r.Get("/{id}", h.ServeDetail)
	r.Post("/{id}/actions/{action}", h.HandleRowAction)
	return r
}
