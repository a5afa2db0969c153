package users

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/metrics"
	"github.com/flicapp/flicapp/internal/app/system/tablestate"
	"github.com/flicapp/flicapp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	tableName = "users"
	basePath  = "/users"
)

// Action ids.
const (
	actionEnable  = "enable"
	actionDisable = "disable"
	actionDelete  = "delete"
)

var errSelf = errors.New("users: cannot change own account")

var roleLabels = map[string]string{
	models.RoleAdmin:    "Administrador",
	models.RoleProvider: "Prestador",
	models.RoleClient:   "Cliente",
}

func roleLabel(role string) string {
	if l, ok := roleLabels[role]; ok {
		return l
	}
	return role
}

func statusLabel(u models.User) string {
	if u.IsActive() {
		return "Ativo"
	}
	return "Desativado"
}

func statusBadge(u models.User) template.HTML {
	if u.IsActive() {
		return `<span class="rounded bg-green-100 px-2 py-0.5 text-xs text-green-800">Ativo</span>`
	}
	return `<span class="rounded bg-gray-200 px-2 py-0.5 text-xs text-gray-700">Desativado</span>`
}

// newTable configures the users table for the signed-in admin. Action
// handlers audit as actor and refuse to touch the actor's own account.
func (h *Handler) newTable(r *http.Request, actor primitive.ObjectID) *datatable.Table[models.User] {
	self := func(u models.User) bool { return u.ID == actor }

	return datatable.New(datatable.Config[models.User]{
		Title:    "Usuários",
		PageSize: h.pageSize,
		Columns: []datatable.Column[models.User]{
			{Key: "name", Label: "Nome", Sortable: true, Value: func(u models.User) any { return u.FullName }},
			{Key: "email", Label: "E-mail", Sortable: true, Value: func(u models.User) any { return u.Email }},
			{
				Key:    "phone",
				Label:  "Telefone",
				Value:  func(u models.User) any { return u.Phone },
				Render: func(u models.User) template.HTML { return template.HTML(template.HTMLEscapeString(datatable.FormatPhone(u.Phone))) },
			},
			{Key: "role", Label: "Perfil", Sortable: true, Value: func(u models.User) any { return roleLabel(u.Role) }},
			{Key: "status", Label: "Status", Sortable: true, Value: func(u models.User) any { return statusLabel(u) }, Render: statusBadge},
			{Key: "createdDate", Label: "Cadastro", Sortable: true, Value: func(u models.User) any { return u.CreatedAt }},
		},
		Filter: &datatable.Filter[models.User]{
			Key:   "role",
			Label: "Perfil",
			Options: []datatable.FilterOption{
				{Value: models.RoleAdmin, Label: roleLabels[models.RoleAdmin]},
				{Value: models.RoleProvider, Label: roleLabels[models.RoleProvider]},
				{Value: models.RoleClient, Label: roleLabels[models.RoleClient]},
			},
			Match: func(u models.User, v string) bool { return u.Role == v },
		},
		Actions: []datatable.Action[models.User]{
			{
				ID:        actionEnable,
				Label:     "Ativar",
				Variant:   datatable.VariantSuccess,
				Batchable: true,
				Show:      func(u models.User) bool { return !u.IsActive() },
				Handle: func(ctx context.Context, u models.User) error {
					if err := h.users.SetStatus(ctx, u.ID, models.StatusActive); err != nil {
						return err
					}
					h.AuditLog.UserEnabled(ctx, r, actor.Hex(), u.ID)
					return nil
				},
			},
			{
				ID:        actionDisable,
				Label:     "Desativar",
				Variant:   datatable.VariantDestructive,
				Batchable: true,
				Show:      func(u models.User) bool { return u.IsActive() },
				Disabled:  self,
				Handle: func(ctx context.Context, u models.User) error {
					if self(u) {
						return errSelf
					}
					if err := h.users.SetStatus(ctx, u.ID, models.StatusDisabled); err != nil {
						return err
					}
					h.AuditLog.UserDisabled(ctx, r, actor.Hex(), u.ID)
					return nil
				},
			},
			{
				ID:        actionDelete,
				Label:     "Excluir",
				Variant:   datatable.VariantDestructive,
				Batchable: true,
				Disabled:  self,
				Handle: func(ctx context.Context, u models.User) error {
					if self(u) {
						return errSelf
					}
					if err := h.users.Delete(ctx, u.ID); err != nil {
						return err
					}
					h.AuditLog.UserDeleted(ctx, r, actor.Hex(), u.ID, u.Email)
					return nil
				},
			},
		},
		Detail: detailBody,
	})
}

// load fills t with every user, restores the admin's saved view state and
// applies the interactions in v. It reports whether v changed the view.
func (h *Handler) load(ctx context.Context, t *datatable.Table[models.User], userID string, v url.Values) (bool, error) {
	start := time.Now()
	rows, err := h.users.List(ctx, userstore.ListFilter{})
	if err != nil {
		return false, err
	}
	metrics.ObserveLoad(tableName, start)
	t.SetData(rows)
	return tablestate.Sync(ctx, h.Tables, userID, tableName, t, v), nil
}

func detailBody(u models.User) template.HTML {
	var b strings.Builder
	b.WriteString(`<dl class="grid grid-cols-3 gap-2 text-sm">`)
	field := func(label, value string) {
		b.WriteString(`<dt class="font-medium text-gray-600">`)
		b.WriteString(template.HTMLEscapeString(label))
		b.WriteString(`</dt><dd class="col-span-2">`)
		b.WriteString(template.HTMLEscapeString(datatable.Display(value)))
		b.WriteString(`</dd>`)
	}
	field("Nome", u.FullName)
	field("E-mail", u.Email)
	field("Telefone", datatable.FormatPhone(u.Phone))
	field("Perfil", roleLabel(u.Role))
	field("Status", statusLabel(u))
	field("Endereço", u.Address.OneLine())
	if u.Address != nil {
		field("CEP", datatable.FormatCEP(u.Address.ZipCode))
	}
	field("Cadastro", datatable.FormatDateTime(u.CreatedAt))
	b.WriteString(`</dl>`)
	return template.HTML(b.String())
}
