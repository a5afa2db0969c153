// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	uierrors "github.com/flicapp/flicapp/internal/app/features/errors"
	userstore "github.com/flicapp/flicapp/internal/app/store/users"
	"github.com/flicapp/flicapp/internal/app/system/auditlog"
	"github.com/flicapp/flicapp/internal/app/system/auth"
	"github.com/flicapp/flicapp/internal/app/system/normalize"
	"github.com/flicapp/flicapp/internal/app/system/ratelimit"
	"github.com/flicapp/flicapp/internal/app/system/timeouts"
	"github.com/flicapp/flicapp/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	users      *userstore.Store
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    ratelimit.NewLoginLimiter(),
		users:      userstore.New(db),
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

// genericFailure is shown for every credential failure so the form does not
// reveal which e-mail addresses have accounts.
const genericFailure = "E-mail ou senha inválidos."

// ServeLogin handles GET /login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := query.Get(r, "return")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
		return
	}
	h.renderForm(w, r, "", "", ret)
}

// HandleLoginPost handles POST /login: e-mail and password are checked
// against the users collection and a session is created on success.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form", err, "Formulário inválido.", "/login")
		return
	}
	email := normalize.Email(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	ret := strings.TrimSpace(r.PostFormValue("return"))

	if email == "" || password == "" {
		h.renderForm(w, r, "Informe e-mail e senha.", email, ret)
		return
	}

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("login rate limited",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", email))
		w.WriteHeader(http.StatusTooManyRequests)
		h.renderForm(w, r, msg, email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, email)
		h.renderForm(w, r, genericFailure, email, ret)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: load user", err, "Não foi possível entrar agora. Tente novamente.", "/login")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, email)
		h.renderForm(w, r, genericFailure, email, ret)
		return
	}
	if !u.IsActive() {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, email)
		h.renderForm(w, r, "Sua conta está desativada. Fale com o suporte.", email, ret)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		h.renderForm(w, r, "Não foi possível criar a sessão. Tente novamente.", email, ret)
		return
	}
	h.AuditLog.LoginSuccess(ctx, r, u.ID, email)
	h.Limiter.ResetEmail(email)

	http.Redirect(w, r, urlutil.SafeReturn(ret, "", "/dashboard"), http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	templates.Render(w, r, "login_form", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Entrar", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
	})
}
