// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context and renders the
// matching error page. Server errors carry a reference id that appears both
// in the log line and on the page so support can find the cause.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs err at error level and renders a 500 page showing
// userMsg and a reference id.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	ref := uuid.NewString()
	e.Log.Error(logMsg, append(e.fields(r, err), zap.String("error_ref", ref))...)
	render(w, r, http.StatusInternalServerError, "Erro", userMsg, ref, backURL)
}

// LogBadRequest logs err at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogForbidden logs a denied access at warn level and renders a 403 page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMXLogServerError is LogServerError for endpoints that HTMX may call: an
// HTMX request gets a plain 500 with the reference id instead of a page.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	if r.Header.Get("HX-Request") != "true" {
		e.LogServerError(w, r, logMsg, err, userMsg, backURL)
		return
	}
	ref := uuid.NewString()
	e.Log.Error(logMsg, append(e.fields(r, err), zap.String("error_ref", ref))...)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(userMsg + " (ref " + ref + ")"))
}
