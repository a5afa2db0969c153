// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/authz"
	"github.com/flicapp/flicapp/internal/app/system/datatable"
	"github.com/flicapp/flicapp/internal/app/system/inputval"
	"github.com/flicapp/flicapp/internal/app/system/normalize"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"github.com/flicapp/flicapp/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// profileData is the view model for the profile page. Form fields echo the
// submitted values when a section fails validation.
type profileData struct {
	viewdata.BaseVM

	FullName string
	Email    string
	Phone    string
	RoleName string

	ZipCode    string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string

	// Section names the form that failed, so only it shows Error.
	Section string
	Error   template.HTML
	Success template.HTML
}

var successMessages = map[string]template.HTML{
	"profile":  "Dados atualizados.",
	"address":  "Endereço atualizado.",
	"password": "Senha alterada.",
}

func fromUser(u *models.User) profileData {
	d := profileData{
		FullName: u.FullName,
		Email:    u.Email,
		RoleName: roleName(u.Role),
	}
	if u.Phone != "" {
		d.Phone = datatable.FormatPhone(u.Phone)
	}
	if a := u.Address; a != nil {
		if a.ZipCode != "" {
			d.ZipCode = datatable.FormatCEP(a.ZipCode)
		}
		d.Street = a.Street
		d.Number = a.Number
		d.Complement = a.Complement
		d.District = a.District
		d.City = a.City
		d.State = a.State
	}
	return d
}

func roleName(role string) string {
	switch role {
	case models.RoleAdmin:
		return "Administrador"
	case models.RoleProvider:
		return "Prestador"
	}
	return "Cliente"
}

// ServeProfile renders the user's profile page.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	data := fromUser(user)
	data.Success = successMessages[r.URL.Query().Get("success")]
	h.render(w, r, http.StatusOK, data)
}

// HandleUpdateProfile processes the name, e-mail and phone form.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulário inválido.", "/profile")
		return
	}

	data := fromUser(user)
	data.Section = "profile"
	data.FullName = normalize.Name(r.PostForm.Get("full_name"))
	data.Email = normalize.Email(r.PostForm.Get("email"))
	data.Phone = strings.TrimSpace(r.PostForm.Get("phone"))

	fail := func(msg string) {
		data.Error = template.HTML(template.HTMLEscapeString(msg))
		h.render(w, r, http.StatusUnprocessableEntity, data)
	}
	switch {
	case data.FullName == "":
		fail("Informe seu nome.")
		return
	case !inputval.IsValidEmail(data.Email):
		fail("Informe um e-mail válido.")
		return
	case data.Phone != "" && !inputval.IsValidPhone(data.Phone):
		fail("Informe um telefone com DDD, por exemplo (11) 98765-4321.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	taken, err := h.users.EmailExistsForOther(ctx, data.Email, user.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check email failed", err, "Não foi possível salvar.", "/profile")
		return
	}
	if taken {
		fail("Este e-mail já está em uso.")
		return
	}

	err = h.users.UpdateProfile(ctx, user.ID, userstore.ProfileUpdate{
		FullName: data.FullName,
		Email:    data.Email,
		Phone:    phoneDigits(data.Phone),
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		fail("Este e-mail já está em uso.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "Não foi possível salvar.", "/profile")
		return
	}

	h.AuditLog.UserUpdated(ctx, r, user.ID.Hex(), user.ID, changedFields(user, data)...)
	http.Redirect(w, r, "/profile?success=profile", http.StatusSeeOther)
}

// HandleUpdateAddress processes the address form. Submitting every field
// empty removes the address.
func (h *Handler) HandleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulário inválido.", "/profile")
		return
	}

	data := fromUser(user)
	data.Section = "address"
	f := r.PostForm
	addr := models.Address{
		ZipCode:    strings.TrimSpace(f.Get("zip_code")),
		Street:     normalize.Name(f.Get("street")),
		Number:     strings.TrimSpace(f.Get("number")),
		Complement: normalize.Name(f.Get("complement")),
		District:   normalize.Name(f.Get("district")),
		City:       normalize.Name(f.Get("city")),
		State:      normalize.UF(f.Get("state")),
	}
	data.ZipCode, data.Street, data.Number = addr.ZipCode, addr.Street, addr.Number
	data.Complement, data.District, data.City, data.State = addr.Complement, addr.District, addr.City, addr.State

	var target *models.Address
	if addr != (models.Address{}) {
		msg := validateAddress(addr)
		if msg != "" {
			data.Error = template.HTML(template.HTMLEscapeString(msg))
			h.render(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		target = &addr
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.users.UpdateAddress(ctx, user.ID, target); err != nil {
		h.ErrLog.LogServerError(w, r, "update address failed", err, "Não foi possível salvar o endereço.", "/profile")
		return
	}
	h.AuditLog.UserUpdated(ctx, r, user.ID.Hex(), user.ID, "address")
	http.Redirect(w, r, "/profile?success=address", http.StatusSeeOther)
}

func validateAddress(a models.Address) string {
	switch {
	case !inputval.IsValidCEP(a.ZipCode):
		return "Informe um CEP com 8 dígitos, por exemplo 01310-100."
	case a.Street == "" || a.Number == "":
		return "Informe a rua e o número."
	case a.City == "":
		return "Informe a cidade."
	case !inputval.IsValidUF(a.State):
		return "Informe a UF com duas letras, por exemplo SP."
	}
	return ""
}

// HandleChangePassword processes the password change form.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Formulário inválido.", "/profile")
		return
	}

	data := fromUser(user)
	data.Section = "password"
	fail := func(msg string) {
		data.Error = template.HTML(template.HTMLEscapeString(msg))
		h.render(w, r, http.StatusUnprocessableEntity, data)
	}

	current := r.PostForm.Get("current_password")
	next := r.PostForm.Get("new_password")
	switch {
	case bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil:
		fail("Senha atual incorreta.")
		return
	case len(next) < minPasswordLen:
		fail("A nova senha deve ter pelo menos 8 caracteres.")
		return
	case next != r.PostForm.Get("confirm_password"):
		fail("As senhas não conferem.")
		return
	case next == current:
		fail("A nova senha deve ser diferente da atual.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Não foi possível alterar a senha.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.users.SetPasswordHash(ctx, user.ID, string(hash)); err != nil {
		h.ErrLog.LogServerError(w, r, "update password failed", err, "Não foi possível alterar a senha.", "/profile")
		return
	}
	h.AuditLog.UserUpdated(ctx, r, user.ID.Hex(), user.ID, "password")
	http.Redirect(w, r, "/profile?success=password", http.StatusSeeOther)
}

// currentUser loads the signed-in user, password hash included.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return nil, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "Usuário não encontrado.", "/")
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "Não foi possível carregar o perfil.", "/")
		return nil, false
	}
	return user, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data profileData) {
	data.BaseVM = viewdata.NewBaseVM(r, "Meu perfil", "/dashboard")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "profile", data)
}

func changedFields(before *models.User, after profileData) []string {
	var out []string
	if before.FullName != after.FullName {
		out = append(out, "full_name")
	}
	if before.Email != after.Email {
		out = append(out, "email")
	}
	if before.Phone != phoneDigits(after.Phone) {
		out = append(out, "phone")
	}
	return out
}


// phoneDigits stores numbers without the +55 country code.
func phoneDigits(s string) string {
	d := normalize.Digits(s)
	if strings.HasPrefix(d, "55") && (len(d) == 12 || len(d) == 13) {
		return d[2:]
	}
	return d
}
