// internal/app/features/errors/render.go
package errors

import (
	"net/http"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "Acesso restrito", "Entre na sua conta para continuar.", "", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusForbidden, "Acesso negado", msg, "", backURL)
}

// RenderNotFound shows a 404 page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusNotFound, "Não encontrado", msg, "", backURL)
}

// RenderBadRequest shows a 400 page, typically for a malformed id or form.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusBadRequest, "Requisição inválida", msg, "", backURL)
}

// RenderServerError shows a 500 page without a reference id. Prefer
// ErrorLogger.LogServerError, which also logs the cause.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusInternalServerError, "Erro", msg, "", backURL)
}

// HTMXError answers an HTMX request with status and a plain message for the
// client-side toast, and calls fallback for regular requests.
//
//	uierrors.HTMXError(w, r, http.StatusNotFound, "Usuário não encontrado.", func() {
//		uierrors.RenderNotFound(w, r, "Usuário não encontrado.", "/users")
//	})
func HTMXError(w http.ResponseWriter, r *http.Request, status int, msg string, fallback func()) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(msg))
		return
	}
	fallback()
}
