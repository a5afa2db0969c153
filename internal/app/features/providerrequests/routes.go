// internal/app/features/providerrequests/routes.go
package providerrequests

import (
	"github.com/flicapp/flicapp/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the client submission form and the admin review table.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole("client"))
		r.Get("/new", h.ServeNew)
		r.Post("/new", h.HandleNew)
	})

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole("admin"))
		r.Get("/", h.ServeList)
		r.Get("/export/{format}", h.ServeExport)
		r.Post("/bulk/{action}", h.HandleBulk)
		r.Get("/{id}", h.ServeDetail)
		r.Post("/{id}/actions/{action}", h.HandleRowAction)
	})
	return r
}
