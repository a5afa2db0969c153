package providerrequests

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/navigation"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/app/system/tableview"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// rejectData is the view model of the rejection reason form. Count is the
// number of requests the rejection applies to.
type rejectData struct {
	viewdata.BaseVM
	Action    string
	Applicant string
	Count     int
	Reason    string
	Error     string
}

// postedReason reads the rejection reason. present is false when the form
// carried no reason field, meaning the reason form should be shown.
func postedReason(r *http.Request) (reason string, present bool) {
	if err := r.ParseForm(); err != nil {
		return "", false
	}
	if _, ok := r.PostForm["reason"]; !ok {
		return "", false
	}
	return r.PostForm.Get("reason"), true
}

func (h *Handler) renderReject(w http.ResponseWriter, r *http.Request, status int, data rejectData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Rejeitar solicitação", basePath)
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "providerrequests_reject", data)
}

func redirectFlash(w http.ResponseWriter, r *http.Request, back, flash string) {
	http.Redirect(w, r, urlutil.AddOrSetQueryParams(back, map[string]string{"msg": flash}), http.StatusSeeOther)
}

// HandleBulk handles POST /provider-requests/bulk/{action}. A bulk reject
// posted without a reason answers with the reason form, which posts back
// here.
func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	actionID := chi.URLParam(r, "action")
	raw, hasReason := postedReason(r)
	reason, valid := cleanReason(raw)

	p, ok := h.prepare(w, r, nil, reason)
	if !ok {
		return
	}

	if actionID == actionReject && !valid {
		eligible := 0
		for _, a := range p.t.BulkActions() {
			if a.ID == actionReject && !a.Disabled {
				eligible = a.Eligible
			}
		}
		if eligible == 0 {
			redirectFlash(w, r, basePath, tableview.FlashUnavailable)
			return
		}
		data := rejectData{Action: basePath + "/bulk/" + actionReject, Count: eligible, Reason: raw}
		status := http.StatusOK
		if hasReason {
			data.Error = reasonError
			status = http.StatusUnprocessableEntity
		}
		h.renderReject(w, r, status, data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Bulk(), h.Log, "provider requests bulk "+actionID)
	defer cancel()

	res, flash, err := tableview.RunBulk(ctx, tableName, p.t, actionID)
	if err != nil {
		h.Log.Warn("provider requests bulk action",
			zap.String("action", actionID),
			zap.Int("applied", res.Applied),
			zap.Int("failed", res.Failed),
			zap.Error(err))
	}
	tablestate.Save(ctx, h.Tables, p.actor.Hex(), tableName, p.t)

	if tableview.WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if flash == tableview.FlashUnavailable {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		_ = json.NewEncoder(w).Encode(res)
		return
	}
	if flash == "" {
		h.ErrLog.LogServerError(w, r, "provider requests bulk action failed", err, "Não foi possível concluir a ação.", basePath)
		return
	}
	redirectFlash(w, r, basePath, flash)
}

const reasonError = "Informe o motivo da rejeição (até 500 caracteres)."

// HandleRowAction handles POST /provider-requests/{id}/actions/{action}.
// Reject without a reason answers with the reason form.
func (h *Handler) HandleRowAction(w http.ResponseWriter, r *http.Request) {
	actionID := chi.URLParam(r, "action")
	rowID := chi.URLParam(r, "id")
	raw, hasReason := postedReason(r)
	reason, valid := cleanReason(raw)

	p, ok := h.prepare(w, r, nil, reason)
	if !ok {
		return
	}
	back := navigation.SafeBackURL(r, navigation.ProviderRequestsBackURL)

	if actionID == actionReject && !valid {
		row, found := p.t.Row(rowID)
		if !found || !row.IsPending() {
			redirectFlash(w, r, back, tableview.FlashUnavailable)
			return
		}
		data := rejectData{
			Action:    basePath + "/" + rowID + "/actions/" + actionReject,
			Applicant: row.UserName,
			Count:     1,
			Reason:    raw,
		}
		status := http.StatusOK
		if hasReason {
			data.Error = reasonError
			status = http.StatusUnprocessableEntity
		}
		h.renderReject(w, r, status, data)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "provider request "+actionID)
	defer cancel()

	err := p.t.RunAction(ctx, actionID, rowID)
	switch {
	case err == nil:
		redirectFlash(w, r, back, tableview.FlashApplied)
	case errors.Is(err, datatable.ErrRowNotFound),
		errors.Is(err, datatable.ErrUnknownAction),
		errors.Is(err, datatable.ErrActionUnavailable),
		errors.Is(err, requeststore.ErrNotPending),
		errors.Is(err, requeststore.ErrNotFound),
		errors.Is(err, userstore.ErrNotFound):
		redirectFlash(w, r, back, tableview.FlashUnavailable)
	default:
		h.ErrLog.LogServerError(w, r, "provider request action failed", err, "Não foi possível concluir a ação.", back)
	}
}
