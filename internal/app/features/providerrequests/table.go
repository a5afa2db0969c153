package providerrequests

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	requeststore "github.com/flicapp/flicapp/internal/app/store/providerrequests"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/htmlsanitize"
	"github.com/flicapp/flicapp/internal/app/system/metrics"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/app/system/txn"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	tableName = "provider_requests"
	basePath  = "/provider-requests"

	actionAccept = "accept"
	actionReject = "reject"

	maxReasonLen = 500
)

var statusLabels = map[string]string{
	models.RequestPending:  "Pendente",
	models.RequestApproved: "Aprovada",
	models.RequestRejected: "Rejeitada",
}

var statusClasses = map[string]string{
	models.RequestPending:  "bg-yellow-100 text-yellow-800",
	models.RequestApproved: "bg-green-100 text-green-800",
	models.RequestRejected: "bg-red-100 text-red-800",
}

func statusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

func statusBadge(p models.ProviderRequest) template.HTML {
	return template.HTML(`<span class="rounded px-2 py-0.5 text-xs ` + statusClasses[p.Status] + `">` +
		template.HTMLEscapeString(statusLabel(p.Status)) + `</span>`)
}

// newTable configures the review table. reason is the rejection reason
// posted with the request; reject refuses to run without one.
func (h *Handler) newTable(r *http.Request, actor primitive.ObjectID, reason string) *datatable.Table[models.ProviderRequest] {
	pending := func(p models.ProviderRequest) bool { return p.IsPending() }

	return datatable.New(datatable.Config[models.ProviderRequest]{
		Title:    "Solicitações de prestador",
		PageSize: h.pageSize,
		Columns: []datatable.Column[models.ProviderRequest]{
			{Key: "userName", Label: "Solicitante", Sortable: true, Value: func(p models.ProviderRequest) any { return p.UserName }},
			{Key: "userEmail", Label: "E-mail", Sortable: true, Value: func(p models.ProviderRequest) any { return p.UserEmail }},
			{Key: "serviceCategory", Label: "Categoria", Sortable: true, Value: func(p models.ProviderRequest) any { return p.ServiceCategory }},
			{Key: "status", Label: "Status", Sortable: true, Value: func(p models.ProviderRequest) any { return statusLabel(p.Status) }, Render: statusBadge},
			{Key: "createdDate", Label: "Enviada em", Sortable: true, Value: func(p models.ProviderRequest) any { return p.CreatedAt }},
			{Key: "reviewedDate", Label: "Revisada em", Sortable: true, Value: func(p models.ProviderRequest) any { return p.ReviewedAt }},
		},
		Filter: &datatable.Filter[models.ProviderRequest]{
			Key:   "status",
			Label: "Status",
			Options: []datatable.FilterOption{
				{Value: models.RequestPending, Label: statusLabels[models.RequestPending]},
				{Value: models.RequestApproved, Label: statusLabels[models.RequestApproved]},
				{Value: models.RequestRejected, Label: statusLabels[models.RequestRejected]},
			},
			Match: func(p models.ProviderRequest, v string) bool { return p.Status == v },
		},
		Actions: []datatable.Action[models.ProviderRequest]{
			{
				ID:        actionAccept,
				Label:     "Aprovar",
				Variant:   datatable.VariantSuccess,
				Batchable: true,
				Show:      pending,
				Handle: func(ctx context.Context, p models.ProviderRequest) error {
					return h.approve(ctx, r, actor, p)
				},
			},
			{
				ID:        actionReject,
				Label:     "Rejeitar",
				Variant:   datatable.VariantDestructive,
				Batchable: true,
				Show:      pending,
				Handle: func(ctx context.Context, p models.ProviderRequest) error {
					return h.reject(ctx, r, actor, p, reason)
				},
			},
		},
		Detail: detailBody,
	})
}

// approve marks the request APPROVED and promotes the applicant in one
// transaction.
func (h *Handler) approve(ctx context.Context, r *http.Request, actor primitive.ObjectID, p models.ProviderRequest) error {
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if _, err := h.requests.Approve(ctx, p.ID, actor); err != nil {
			return err
		}
		return h.users.SetRole(ctx, p.UserID, models.RoleProvider)
	})
	metrics.RequestTransition(models.RequestApproved, err)
	if err != nil {
		return err
	}
	h.AuditLog.RequestApproved(ctx, r, actor.Hex(), p.UserID, p.ID)
	return nil
}

func (h *Handler) reject(ctx context.Context, r *http.Request, actor primitive.ObjectID, p models.ProviderRequest, reason string) error {
	_, err := h.requests.Reject(ctx, p.ID, actor, reason)
	metrics.RequestTransition(models.RequestRejected, err)
	if err != nil {
		return err
	}
	h.AuditLog.RequestRejected(ctx, r, actor.Hex(), p.UserID, p.ID, reason)
	return nil
}

func (h *Handler) load(ctx context.Context, t *datatable.Table[models.ProviderRequest], userID string, v url.Values) (bool, error) {
	start := time.Now()
	rows, err := h.requests.List(ctx, requeststore.ListFilter{})
	if err != nil {
		return false, err
	}
	metrics.ObserveLoad(tableName, start)
	t.SetData(rows)
	return tablestate.Sync(ctx, h.Tables, userID, tableName, t, v), nil
}

func detailBody(p models.ProviderRequest) template.HTML {
	var b strings.Builder
	b.WriteString(`<dl class="grid grid-cols-3 gap-2 text-sm">`)
	field := func(label, value string) {
		b.WriteString(`<dt class="font-medium text-gray-600">`)
		b.WriteString(template.HTMLEscapeString(label))
		b.WriteString(`</dt><dd class="col-span-2 whitespace-pre-line">`)
		b.WriteString(template.HTMLEscapeString(datatable.Display(value)))
		b.WriteString(`</dd>`)
	}
	field("Solicitante", p.UserName)
	field("E-mail", p.UserEmail)
	field("Categoria", p.ServiceCategory)
	// Descriptions are sanitized on submission and keep their formatting.
	b.WriteString(`<dt class="font-medium text-gray-600">Descrição</dt><dd class="col-span-2 prose prose-sm">`)
	b.WriteString(htmlsanitize.Sanitize(p.Description))
	b.WriteString(`</dd>`)
	field("Status", statusLabel(p.Status))
	field("Enviada em", datatable.FormatDateTime(p.CreatedAt))
	if p.ReviewedAt != nil {
		field("Revisada em", datatable.FormatDateTime(*p.ReviewedAt))
	}
	if p.Status == models.RequestRejected {
		field("Motivo", p.RejectionReason)
	}
	b.WriteString(`</dl>`)
	return template.HTML(b.String())
}

// cleanReason sanitizes a posted rejection reason. ok is false when the
// reason is missing or too long.
func cleanReason(raw string) (string, bool) {
	reason := strings.TrimSpace(htmlsanitize.PlainText(raw))
	if reason == "" || len([]rune(reason)) > maxReasonLen {
		return reason, false
	}
	return reason, true
}
