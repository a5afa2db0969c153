package appointments

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

type prepared struct {
	t       *datatable.Table[models.Appointment]
	viewer  viewer
	changed bool
}

func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, q url.Values, rating int) (prepared, bool) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return prepared{}, false
	}
	if !authz.HasKnownRole(r) {
		uierrors.RenderForbidden(w, r, "Seu perfil não tem acesso aos agendamentos.", "/")
		return prepared{}, false
	}
	v := viewer{role: role, id: uid}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "appointments table load")
	defer cancel()

	t := h.newTable(r, v, rating)
	changed, err := h.load(ctx, t, v, q)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "appointments load failed", err, "Não foi possível carregar os agendamentos.", "/dashboard")
		return prepared{}, false
	}
	return prepared{t: t, viewer: v, changed: changed}, true
}

// ServeList handles GET /appointments.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, ok := h.prepare(w, r, r.URL.Query(), 0)
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
			h.Log.Warn("appointments page json write failed", zap.Error(err))
		}
		return
	}

	templates.Render(w, r, "appointments_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Agendamentos", "/dashboard"),
		Table:  tableview.Build(r, basePath, p.t, res),
	})
}

// ServeDetail handles GET /appointments/{id}. Appointments outside the
// viewer's scope are not found.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.prepare(w, r, nil, 0)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	dv, found := p.t.Detail(id)
	if !found {
		uierrors.RenderNotFound(w, r, "Agendamento não encontrado.", basePath)
		return
	}
	row, _ := p.t.Row(id)

	templates.Render(w, r, "datatable_detail", tableview.DetailPage{
		BaseVM:  viewdata.NewBaseVM(r, row.Service, basePath),
		Detail:  dv,
		Actions: tableview.RowActions(basePath, p.t, row),
	})
}

// ServeExport handles GET /appointments/export/{format}.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	p, ok := h.prepare(w, r, nil, 0)
	if !ok {
		return
	}
	known, err := tableview.WriteExport(w, tableName, p.t, chi.URLParam(r, "format"))
	if !known {
		uierrors.RenderBadRequest(w, r, "Formato de exportação desconhecido.", basePath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "appointments export failed", err, "Não foi possível exportar os agendamentos.", basePath)
	}
}
