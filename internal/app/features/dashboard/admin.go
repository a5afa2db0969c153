// internal/app/features/dashboard/admin.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type adminData struct {
	viewdata.BaseVM
	Users        userstore.RoleCounts
	Requests     requeststore.StatusCounts
	Appointments summaryVM
}

// ServeAdmin shows platform-wide counts. A failed count is logged and
// shown as zero.
func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	data := adminData{BaseVM: viewdata.NewBaseVM(r, "Painel do administrador", "/")}

	var err error
	if data.Users, err = h.users.Counts(ctx); err != nil {
		h.Log.Warn("dashboard: user counts", zap.Error(err))
	}
	if data.Requests, err = h.requests.Counts(ctx); err != nil {
		h.Log.Warn("dashboard: request counts", zap.Error(err))
	}
	sum, err := h.appointments.Summarize(ctx, appointmentstore.Scope{})
	if err != nil {
		h.Log.Warn("dashboard: appointment summary", zap.Error(err))
	}
	data.Appointments = newSummaryVM(sum)

	h.Log.Debug("admin dashboard served", zap.String("user", data.UserName))
	templates.Render(w, r, "admin_dashboard", data)
}
