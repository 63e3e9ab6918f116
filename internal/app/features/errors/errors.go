// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// Body is the JSON error envelope returned by every API handler.
type Body struct {
	Error   apperr.Kind `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Min     *int        `json:"min,omitempty"`
	Max     *int        `json:"max,omitempty"`
	Detail  string      `json:"detail,omitempty"`
}

// Status maps an error kind to its HTTP status.
func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAccessDenied:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// BodyFor builds the envelope for err. Detail carries the underlying error
// text for internal errors only.
func BodyFor(err error) Body {
	ae := apperr.As(err)
	b := Body{Error: ae.Kind, Code: ae.Code, Message: ae.Message}
	if ae.Code == apperr.CodeInvalidTeamSize {
		lo, hi := ae.Min, ae.Max
		b.Min, b.Max = &lo, &hi
	}
	if ae.Kind == apperr.KindInternal && ae.Err != nil {
		b.Detail = ae.Err.Error()
	}
	return b
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorLogger writes error responses and logs the ones worth logging.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// Write responds with the envelope for err. Internal errors are logged at
// error level with the request path; client errors at debug.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	b := BodyFor(err)
	status := Status(b.Error)
	if status >= http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("message", b.Message),
			zap.Error(err))
	} else {
		e.log.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.String("kind", string(b.Error)),
			zap.String("code", b.Code))
	}
	WriteJSON(w, status, b)
}

// LogServerError logs err with logMsg and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg, zap.String("path", r.URL.Path), zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, BodyFor(apperr.Internal(userMsg, err)))
}

// Validation responds 400 with a validation error.
func (e *ErrorLogger) Validation(w http.ResponseWriter, r *http.Request, msg string) {
	e.Write(w, r, apperr.Validation(msg))
}
