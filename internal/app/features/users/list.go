package users

import (
	"net/http"
	"net/url"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/tableview"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"github.com/flicapp/flicapp/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type listData struct {
	viewdata.BaseVM
	Table tableview.VM
}

// prepare builds the table for the signed-in admin, loads it and applies v.
// On failure it has already written the error response.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, v url.Values) (*datatable.Table[models.User], bool, bool) {
	_, _, actor, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return nil, false, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users table load")
	defer cancel()

	t := h.newTable(r, actor)
	changed, err := h.load(ctx, t, actor.Hex(), v)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "users table load failed", err, "Não foi possível carregar os usuários.", "/dashboard")
		return nil, false, false
	}
	return t, changed, true
}

// ServeList handles GET /users. View interactions arrive as query
// parameters and are followed by a redirect to the clean list URL unless
// JSON was requested.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	t, changed, ok := h.prepare(w, r, r.URL.Query())
	if !ok {
		return
	}
	if changed && !tableview.WantsJSON(r) {
		http.Redirect(w, r, basePath, http.StatusSeeOther)
		return
	}

	res := t.Compute()
	if tableview.WantsJSON(r) {
		if err := tableview.WritePage(w, t, res); err != nil {
			h.Log.Warn("users page json write failed", zap.Error(err))
		}
		return
	}

	templates.Render(w, r, "users_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Usuários", "/dashboard"),
		Table:  tableview.Build(r, basePath, t, res),
	})
}

// ServeDetail handles GET /users/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.prepare(w, r, nil)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	dv, found := t.Detail(id)
	if !found {
		uierrors.RenderNotFound(w, r, "Usuário não encontrado.", basePath)
		return
	}
	row, _ := t.Row(id)

	templates.Render(w, r, "datatable_detail", tableview.DetailPage{
		BaseVM:  viewdata.NewBaseVM(r, row.FullName, basePath),
		Detail:  dv,
		Actions: tableview.RowActions(basePath, t, row),
	})
}

// ServeExport handles GET /users/export/{format}. The export covers every
// row matching the current search and filter, in the current sort order.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.prepare(w, r, nil)
	if !ok {
		return
	}
	known, err := tableview.WriteExport(w, tableName, t, chi.URLParam(r, "format"))
	if !known {
		uierrors.RenderBadRequest(w, r, "Formato de exportação desconhecido.", basePath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "users export failed", err, "Não foi possível exportar os usuários.", basePath)
	}
}
