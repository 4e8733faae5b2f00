// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and renders the matching error page
// in one call, so handlers stay to a single line per failure path.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger around the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs err at error level and renders a dismissible
// server-error page with userMsg and a back link.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))

	w.WriteHeader(http.StatusInternalServerError)
	renderNotice(w, r, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs err at warn level and renders a bad-request page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))

	w.WriteHeader(http.StatusBadRequest)
	renderNotice(w, r, "Invalid request", userMsg, backURL)
}

// LogForbidden logs the denial and renders the forbidden page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg, userMsg, backURL string) {
	e.log.Warn(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))

	RenderForbidden(w, r, userMsg, backURL)
}

func renderNotice(w http.ResponseWriter, r *http.Request, title, msg, backURL string) {
	data := pageData{
		Title:   title,
		Message: msg,
		BackURL: backURL,
	}
	templates.Render(w, r, "error_notice", data)
}
