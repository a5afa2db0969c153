package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/navigation"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/app/system/tableview"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleBulk handles POST /users/bulk/{action}: the action runs over the
// saved selection, which is cleared afterwards.
func (h *Handler) HandleBulk(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.prepare(w, r, nil)
	if !ok {
		return
	}
	_, _, actor, _ := authz.UserCtx(r)
	actionID := chi.URLParam(r, "action")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Bulk(), h.Log, "users bulk "+actionID)
	defer cancel()

	res, flash, err := tableview.RunBulk(ctx, tableName, t, actionID)
	if err != nil {
		h.Log.Warn("users bulk action",
			zap.String("action", actionID),
			zap.Int("applied", res.Applied),
			zap.Int("failed", res.Failed),
			zap.Error(err))
	}
	tablestate.Save(ctx, h.Tables, actor.Hex(), tableName, t)

	if tableview.WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if flash == tableview.FlashUnavailable {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		_ = json.NewEncoder(w).Encode(res)
		return
	}
	if flash == "" {
		h.ErrLog.LogServerError(w, r, "users bulk action failed", err, "Não foi possível concluir a ação.", basePath)
		return
	}
	http.Redirect(w, r, urlutil.AddOrSetQueryParams(basePath, map[string]string{"msg": flash}), http.StatusSeeOther)
}

// HandleRowAction handles POST /users/{id}/actions/{action}.
func (h *Handler) HandleRowAction(w http.ResponseWriter, r *http.Request) {
	t, _, ok := h.prepare(w, r, nil)
	if !ok {
		return
	}
	actionID := chi.URLParam(r, "action")
	rowID := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users action "+actionID)
	defer cancel()

	back := navigation.SafeBackURL(r, navigation.UsersBackURL)
	err := t.RunAction(ctx, actionID, rowID)
	switch {
	case err == nil:
		flash := tableview.FlashApplied
		if actionID == actionDelete {
			back = basePath
		}
		http.Redirect(w, r, urlutil.AddOrSetQueryParams(back, map[string]string{"msg": flash}), http.StatusSeeOther)
	case errors.Is(err, datatable.ErrRowNotFound),
		errors.Is(err, datatable.ErrUnknownAction),
		errors.Is(err, datatable.ErrActionUnavailable):
		http.Redirect(w, r, urlutil.AddOrSetQueryParams(back, map[string]string{"msg": tableview.FlashUnavailable}), http.StatusSeeOther)
	default:
		h.ErrLog.LogServerError(w, r, "users action failed", err, "Não foi possível concluir a ação.", back)
	}
}
