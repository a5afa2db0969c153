package appointments

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	appointmentstore "github.com/flicapp/flicapp/internal/app/store/appointments"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/inputval"
	"github.com/flicapp/flicapp/internal/app/system/metrics"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	tableName = "appointments"
	basePath  = "/appointments"

	actionComplete = "complete"
	actionCancel   = "cancel"
	actionRate     = "rate"
)

var statusLabels = map[string]string{
	models.AppointmentScheduled: "Agendado",
	models.AppointmentCompleted: "Concluído",
	models.AppointmentCancelled: "Cancelado",
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

func stars(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// viewer is the signed-in user the table is built for.
type viewer struct {
	role string
	id   primitive.ObjectID
}

func (v viewer) scope() appointmentstore.Scope {
	switch v.role {
	case models.RoleProvider:
		return appointmentstore.ForProvider(v.id)
	case models.RoleClient:
		return appointmentstore.ForClient(v.id)
	}
	return appointmentstore.Scope{}
}

// newTable configures the table for v. rating is the posted rating for the
// rate action; zero means none was posted.
func (h *Handler) newTable(r *http.Request, v viewer, rating int) *datatable.Table[models.Appointment] {
	cols := []datatable.Column[models.Appointment]{
		{Key: "service", Label: "Serviço", Sortable: true, Value: func(a models.Appointment) any { return a.Service }},
	}
	if v.role != models.RoleClient {
		cols = append(cols, datatable.Column[models.Appointment]{
			Key: "client", Label: "Cliente", Sortable: true, Value: func(a models.Appointment) any { return a.ClientName },
		})
	}
	if v.role != models.RoleProvider {
		cols = append(cols, datatable.Column[models.Appointment]{
			Key: "provider", Label: "Prestador", Sortable: true, Value: func(a models.Appointment) any { return a.ProviderName },
		})
	}
	cols = append(cols,
		datatable.Column[models.Appointment]{
			Key:      "scheduledDate",
			Label:    "Data",
			Sortable: true,
			Value:    func(a models.Appointment) any { return a.ScheduledDate },
			Render: func(a models.Appointment) template.HTML {
				return template.HTML(template.HTMLEscapeString(datatable.FormatDateTime(a.ScheduledDate)))
			},
		},
		datatable.Column[models.Appointment]{
			Key:      "price",
			Label:    "Valor",
			Sortable: true,
			SortAs:   datatable.SortNumber,
			Value:    func(a models.Appointment) any { return float64(a.PriceCents) / 100 },
			Render: func(a models.Appointment) template.HTML {
				return template.HTML(template.HTMLEscapeString(datatable.FormatCurrency(a.PriceCents)))
			},
		},
		datatable.Column[models.Appointment]{
			Key: "status", Label: "Status", Sortable: true, Value: func(a models.Appointment) any { return statusLabel(a.Status) },
		},
		datatable.Column[models.Appointment]{
			Key:      "rating",
			Label:    "Avaliação",
			Sortable: true,
			SortAs:   datatable.SortNumber,
			Value:    func(a models.Appointment) any { return a.Rating },
			Render: func(a models.Appointment) template.HTML {
				return template.HTML(template.HTMLEscapeString(datatable.Display(stars(a.Rating))))
			},
		},
	)

	var party *primitive.ObjectID
	if v.role != models.RoleAdmin {
		party = &v.id
	}

	actions := []datatable.Action[models.Appointment]{}
	if v.role != models.RoleClient {
		actions = append(actions, datatable.Action[models.Appointment]{
			ID:        actionComplete,
			Label:     "Concluir",
			Variant:   datatable.VariantSuccess,
			Batchable: true,
			Show:      func(a models.Appointment) bool { return a.CanCancel() },
			Handle: func(ctx context.Context, a models.Appointment) error {
				return h.appointments.Complete(ctx, a.ID)
			},
		})
	}
	actions = append(actions, datatable.Action[models.Appointment]{
		ID:        actionCancel,
		Label:     "Cancelar",
		Variant:   datatable.VariantDestructive,
		Batchable: true,
		Show:      func(a models.Appointment) bool { return a.CanCancel() },
		Handle: func(ctx context.Context, a models.Appointment) error {
			if err := h.appointments.Cancel(ctx, a.ID, party); err != nil {
				return err
			}
			h.AuditLog.AppointmentCancelled(ctx, r, v.id.Hex(), a.ID)
			return nil
		},
	})
	if v.role == models.RoleClient {
		actions = append(actions, datatable.Action[models.Appointment]{
			ID:        actionRate,
			Label:     "Avaliar",
			Batchable: true,
			Show:      func(a models.Appointment) bool { return a.CanRate() },
			Handle: func(ctx context.Context, a models.Appointment) error {
				if err := h.appointments.Rate(ctx, a.ID, v.id, rating); err != nil {
					return err
				}
				h.AuditLog.AppointmentRated(ctx, r, v.id.Hex(), a.ID, rating)
				return nil
			},
		})
	}

	return datatable.New(datatable.Config[models.Appointment]{
		Title:    "Agendamentos",
		PageSize: h.pageSize,
		Columns:  cols,
		Actions:  actions,
		Filter: &datatable.Filter[models.Appointment]{
			Key:   "status",
			Label: "Status",
			Options: []datatable.FilterOption{
				{Value: models.AppointmentScheduled, Label: statusLabels[models.AppointmentScheduled]},
				{Value: models.AppointmentCompleted, Label: statusLabels[models.AppointmentCompleted]},
				{Value: models.AppointmentCancelled, Label: statusLabels[models.AppointmentCancelled]},
			},
			Match: func(a models.Appointment, s string) bool { return a.Status == s },
		},
	})
}

func (h *Handler) load(ctx context.Context, t *datatable.Table[models.Appointment], v viewer, q url.Values) (bool, error) {
	start := time.Now()
	rows, err := h.appointments.List(ctx, v.scope())
	if err != nil {
		return false, err
	}
	metrics.ObserveLoad(tableName, start)
	t.SetData(rows)
	return tablestate.Sync(ctx, h.Tables, v.id.Hex(), tableName, t, q), nil
}

// parseRating reads a posted 1..5 rating. It returns 0 when the value is
// missing or out of range.
func parseRating(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !inputval.IsValidRating(n) {
		return 0
	}
	return n
}
