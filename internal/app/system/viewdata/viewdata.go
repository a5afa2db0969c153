// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"github.com/gorilla/csrf"
)

// SiteName is shown in the page title and header.
const SiteName = "FlicApp"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type listData struct {
//	    viewdata.BaseVM
//	    Table tableview.VM
//	}
//
//	data := listData{
//	    BaseVM: viewdata.NewBaseVM(r, "Usuários", "/dashboard"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Flash is a one-line notice carried in the "msg" query parameter after
	// a redirect, e.g. the outcome of a bulk action.
	Flash string

	// CSRF protection
	CSRFToken string
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)
	return BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		Flash:       flashMessage(r),
		CSRFToken:   csrf.Token(r),
	}
}

func flashMessage(r *http.Request) string {
	switch r.URL.Query().Get("msg") {
	case "":
		return ""
	case "applied":
		return "Ação aplicada."
	case "partial":
		return "Ação aplicada parcialmente; alguns itens falharam."
	case "saved":
		return "Alterações salvas."
	case "submitted":
		return "Solicitação enviada."
	case "unavailable":
		return "Ação indisponível para a seleção atual."
	}
	return ""
}
