package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.uber.org/zap"
)

type clientData struct {
	viewdata.BaseVM
	Appointments summaryVM
	// Request is the client's latest provider request, if any.
	Request *models.ProviderRequest
}

func (h *Handler) ServeClient(w http.ResponseWriter, r *http.Request) {
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	data := clientData{BaseVM: viewdata.NewBaseVM(r, "Meu painel", "/")}

	sum, err := h.appointments.Summarize(ctx, appointmentstore.ForClient(uid))
	if err != nil {
		h.Log.Warn("dashboard: client summary", zap.Error(err))
	}
	data.Appointments = newSummaryVM(sum)

	pr, err := h.requests.LatestForUser(ctx, uid)
	switch {
	case err == nil:
		data.Request = pr
	case !errors.Is(err, requeststore.ErrNotFound):
		h.Log.Warn("dashboard: latest provider request", zap.Error(err))
	}

	templates.Render(w, r, "client_dashboard", data)
}
