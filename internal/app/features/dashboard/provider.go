package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type providerData struct {
	viewdata.BaseVM
	Appointments summaryVM
}

func (h *Handler) ServeProvider(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	sum, err := h.appointments.Summarize(ctx, appointmentstore.ForProvider(uid))
	if err != nil {
		h.Log.Warn("dashboard: provider summary", zap.Error(err))
	}
	data := providerData{
		BaseVM:       viewdata.NewBaseVM(r, "Painel do prestador", "/"),
		Appointments: newSummaryVM(sum),
	}
	templates.Render(w, r, "provider_dashboard", data)
}
