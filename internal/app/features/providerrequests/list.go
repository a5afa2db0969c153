package providerrequests

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listData struct {
	viewdata.BaseVM
	Table tableview.VM
}

type prepared struct {
	t       *datatable.Table[models.ProviderRequest]
	actor   primitive.ObjectID
	changed bool
}

// prepare builds and loads the review table for the signed-in admin and
// applies v. On failure the error response has been written.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, v url.Values, reason string) (prepared, bool) {
	_, _, actor, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return prepared{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "provider requests table load")
	defer cancel()

	t := h.newTable(r, actor, reason)
	changed, err := h.load(ctx, t, actor.Hex(), v)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "provider requests load failed", err, "Não foi possível carregar as solicitações.", "/dashboard")
		return prepared{}, false
	}
	return prepared{t: t, actor: actor, changed: changed}, true
}

// ServeList handles GET /provider-requests.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, ok := h.prepare(w, r, r.URL.Query(), "")
	if !ok {
		return
	}
	if p.changed && !tableview.WantsJSON(r) {
		http.Redirect(w, r, basePath, http.StatusSeeOther)
		return
	}

	res := p.t.Compute()
	if tableview.WantsJSON(r) {
		if err := tableview.WritePage(w, p.t, res); err != nil {
			h.Log.Warn("provider requests page json write failed", zap.Error(err))
		}
		return
	}

	templates.Render(w, r, "providerrequests_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Solicitações de prestador", "/dashboard"),
		Table:  tableview.Build(r, basePath, p.t, res),
	})
}

// ServeDetail handles GET /provider-requests/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.prepare(w, r, nil, "")
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	dv, found := p.t.Detail(id)
	if !found {
		uierrors.RenderNotFound(w, r, "Solicitação não encontrada.", basePath)
		return
	}
	row, _ := p.t.Row(id)

	templates.Render(w, r, "datatable_detail", tableview.DetailPage{
		BaseVM:  viewdata.NewBaseVM(r, "Solicitação de "+row.UserName, basePath),
		Detail:  dv,
		Actions: tableview.RowActions(basePath, p.t, row),
	})
}

// ServeExport handles GET /provider-requests/export/{format}.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	p, ok := h.prepare(w, r, nil, "")
	if !ok {
		return
	}
	known, err := tableview.WriteExport(w, tableName, p.t, chi.URLParam(r, "format"))
	if !known {
		uierrors.RenderBadRequest(w, r, "Formato de exportação desconhecido.", basePath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "provider requests export failed", err, "Não foi possível exportar as solicitações.", basePath)
	}
}
