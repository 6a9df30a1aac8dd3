// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skarland/obstaclehub/internal/app/lifecycle"
	"github.com/skarland/obstaclehub/internal/app/provision"
	"go.uber.org/zap"
)

// envelope is the JSON error body shared by every feature.
type envelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Responder maps domain errors onto HTTP status codes and a common JSON
// envelope. Unexpected errors are logged and reported as a generic 500
// so internals never leak to callers.
type Responder struct {
	log *zap.Logger
}

// NewResponder constructs an error Responder.
func NewResponder(log *zap.Logger) *Responder {
	return &Responder{log: log}
}

// Write sends the JSON error response for err.
func (e *Responder) Write(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := lifecycle.AsValidation(err); ok {
		fields := make([]fieldError, 0, len(ve.Fields))
		for _, f := range ve.Fields {
			fields = append(fields, fieldError{Field: f.Field, Message: f.Message})
		}
		writeJSON(w, http.StatusBadRequest, envelope{Error: errorBody{
			Code:    "validation_error",
			Message: "The request could not be validated.",
			Fields:  fields,
		}})
		return
	}

	switch {
	case errors.Is(err, lifecycle.ErrNotFound), errors.Is(err, provision.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Error: errorBody{
			Code:    "not_found",
			Message: "The requested resource was not found.",
		}})

	case errors.Is(err, lifecycle.ErrForbidden), errors.Is(err, provision.ErrForbidden):
		writeJSON(w, http.StatusForbidden, envelope{Error: errorBody{
			Code:    "forbidden",
			Message: "You do not have permission to perform this action.",
		}})

	case provision.IsConflict(err), errors.Is(err, provision.ErrDuplicateEmail):
		writeJSON(w, http.StatusConflict, envelope{Error: errorBody{
			Code:    "conflict",
			Message: err.Error(),
		}})

	default:
		e.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, envelope{Error: errorBody{
			Code:    "server_error",
			Message: "Something went wrong. Please try again.",
		}})
	}
}

// BadRequest reports a malformed request body or parameter.
func (e *Responder) BadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Error: errorBody{
		Code:    "bad_request",
		Message: message,
	}})
}

// Unauthorized reports a failed or missing sign-in.
func (e *Responder) Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, envelope{Error: errorBody{
		Code:    "unauthorized",
		Message: message,
	}})
}

// Forbidden is the handler behind GET /forbidden, where the auth
// middleware sends browser callers who lack the required role.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusForbidden, envelope{Error: errorBody{
		Code:    "forbidden",
		Message: "You don't have permission to view this page.",
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
