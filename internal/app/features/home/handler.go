package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler serves the public landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot shows the landing page to visitors and sends signed-in users
// to their dashboard.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Bem-vindo", "/"),
	}
	if data.IsLoggedIn {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "home", data)
}
