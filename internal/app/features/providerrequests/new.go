package providerrequests

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"github.com/flicapp/flicapp/internal/app/system/formutil"
	"github.com/flicapp/flicapp/internal/app/system/htmlsanitize"
	"github.com/flicapp/flicapp/internal/app/system/normalize"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxDescriptionLen = 2000

type newData struct {
	formutil.Base
	Category    string
	Description string
	Latest      *models.ProviderRequest
}

// ServeNew handles GET /provider-requests/new. The client's latest request
// is shown so a pending or rejected one is visible before resubmitting.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	var data newData
	data.Latest = h.latest(r, uid)
	h.renderNew(w, r, http.StatusOK, data)
}

// HandleNew handles POST /provider-requests/new.
func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulário inválido.", "/dashboard")
		return
	}

	data := newData{
		Category:    normalize.Name(r.PostForm.Get("service_category")),
		Description: strings.TrimSpace(r.PostForm.Get("description")),
	}
	switch {
	case data.Category == "":
		data.Error = "Informe a categoria do serviço."
	case len([]rune(data.Description)) > maxDescriptionLen:
		data.Error = "A descrição deve ter no máximo 2000 caracteres."
	}
	if data.Error != "" {
		h.renderNew(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "provider request submit")
	defer cancel()

	applicant, err := h.users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load applicant failed", err, "Não foi possível enviar a solicitação.", "/dashboard")
		return
	}

	pr, err := h.requests.Create(ctx, *applicant, data.Category, htmlsanitize.Sanitize(data.Description))
	if errors.Is(err, requeststore.ErrPendingExists) {
		data.Error = "Você já possui uma solicitação pendente."
		data.Latest = h.latest(r, uid)
		h.renderNew(w, r, http.StatusConflict, data)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create provider request failed", err, "Não foi possível enviar a solicitação.", "/dashboard")
		return
	}

	h.AuditLog.RequestSubmitted(ctx, r, uid, pr.ID, pr.ServiceCategory)
	http.Redirect(w, r, "/dashboard?msg=submitted", http.StatusSeeOther)
}

func (h *Handler) latest(r *http.Request, uid primitive.ObjectID) *models.ProviderRequest {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "latest provider request")
	defer cancel()
	pr, err := h.requests.LatestForUser(ctx, uid)
	if err != nil {
		return nil
	}
	return pr
}

func (h *Handler) renderNew(w http.ResponseWriter, r *http.Request, status int, data newData) {
	formutil.SetBase(&data.Base, r, "Quero ser prestador", "/dashboard")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "providerrequests_new", data)
}
