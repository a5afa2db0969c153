package appointments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/navigation"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/app/system/tableview"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type rateData struct {
	viewdata.BaseVM
	Action   string
	Service  string
	Provider string
	Count    int // selected appointments the rating applies to; zero for a single row
	Stars    []int
	Error    string
}

const ratingError = "Escolha uma nota de 1 a 5."

// postedRating reads the rating field. present is false when the form did
// not carry one at all.
func postedRating(r *http.Request) (rating int, present bool) {
	raw, ok := r.PostForm["rating"]
	if !ok || len(raw) == 0 {
		return 0, false
	}
	return parseRating(raw[0]), true
}

func renderRate(w http.ResponseWriter, r *http.Request, data rateData, invalid bool) {
	data.BaseVM = viewdata.NewBaseVM(r, "Avaliar atendimento", basePath)
	data.Stars = []int{1, 2, 3, 4, 5}
	if invalid {
		data.Error = ratingError
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	templates.Render(w, r, "appointments_rate", data)
}

func redirectFlash(w http.ResponseWriter, r *http.Request, back, flash string) {
	http.Redirect(w, r, urlutil.AddOrSetQueryParams(back, map[string]string{"msg": flash}), http.StatusSeeOther)
}

// HandleBulk handles POST /appointments/bulk/{action}. A bulk rate posted
// without a valid rating answers with the rating form, which posts back here.
func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulário inválido.", basePath)
		return
	}
	rating, hasRating := postedRating(r)

	p, ok := h.prepare(w, r, nil, rating)
	if !ok {
		return
	}
	actionID := chi.URLParam(r, "action")

	if actionID == actionRate && rating == 0 {
		eligible := 0
		for _, a := range p.t.BulkActions() {
			if a.ID == actionRate && !a.Disabled {
				eligible = a.Eligible
			}
		}
		if eligible == 0 {
			redirectFlash(w, r, basePath, tableview.FlashUnavailable)
			return
		}
		renderRate(w, r, rateData{Action: basePath + "/bulk/" + actionRate, Count: eligible}, hasRating)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Bulk(), h.Log, "appointments bulk "+actionID)
	defer cancel()

	res, flash, err := tableview.RunBulk(ctx, tableName, p.t, actionID)
	if err != nil {
		h.Log.Warn("appointments bulk action",
			zap.String("action", actionID),
			zap.Int("applied", res.Applied),
			zap.Int("failed", res.Failed),
			zap.Error(err))
	}
	tablestate.Save(ctx, h.Tables, p.viewer.id.Hex(), tableName, p.t)

	if tableview.WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if flash == tableview.FlashUnavailable {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		_ = json.NewEncoder(w).Encode(res)
		return
	}
	if flash == "" {
		h.ErrLog.LogServerError(w, r, "appointments bulk action failed", err, "Não foi possível concluir a ação.", basePath)
		return
	}
	redirectFlash(w, r, basePath, flash)
}

// HandleRowAction handles POST /appointments/{id}/actions/{action}. Rate
// without a valid rating answers with the rating form, which posts back
// here.
func (h *Handler) HandleRowAction(w http.ResponseWriter, r *http.Request) {
	actionID := chi.URLParam(r, "action")
	rowID := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulário inválido.", basePath)
		return
	}
	rating, hasRating := postedRating(r)

	p, ok := h.prepare(w, r, nil, rating)
	if !ok {
		return
	}
	back := navigation.SafeBackURL(r, navigation.AppointmentsBackURL)

	if actionID == actionRate && rating == 0 {
		row, found := p.t.Row(rowID)
		if !found || !row.CanRate() {
			redirectFlash(w, r, back, tableview.FlashUnavailable)
			return
		}
		renderRate(w, r, rateData{
			Action:   basePath + "/" + rowID + "/actions/" + actionRate,
			Service:  row.Service,
			Provider: row.ProviderName,
		}, hasRating)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "appointment "+actionID)
	defer cancel()

	err := p.t.RunAction(ctx, actionID, rowID)
	switch {
	case err == nil:
		redirectFlash(w, r, back, tableview.FlashApplied)
	case errors.Is(err, datatable.ErrRowNotFound),
		errors.Is(err, datatable.ErrUnknownAction),
		errors.Is(err, datatable.ErrActionUnavailable),
		errors.Is(err, appointmentstore.ErrNotFound),
		errors.Is(err, appointmentstore.ErrNotRateable),
		errors.Is(err, appointmentstore.ErrNotScheduled):
		redirectFlash(w, r, back, tableview.FlashUnavailable)
	default:
		h.ErrLog.LogServerError(w, r, "appointment action failed", err, "Não foi possível concluir a ação.", back)
	}
}
