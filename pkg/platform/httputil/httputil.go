// Package httputil writes JSON responses and maps domain error codes to HTTP status.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "bankeu/pkg/domain-errors"
	"bankeu/pkg/requestcontext"
)

// ErrorResponse is the wire shape of every error body.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Description string   `json:"error_description,omitempty"`
	Details     []string `json:"details,omitempty"`
	Retryable   bool     `json:"retryable,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a domain error. Internal and storage failures never leak
// their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := StatusFor(code)
	resp := ErrorResponse{Error: string(code)}
	if status < http.StatusInternalServerError {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.Description = de.Message
			resp.Details = de.Details
		}
	}
	if code == dErrors.CodeConcurrencyConflict {
		resp.Retryable = true
	}
	WriteJSON(w, status, resp)
}

// Fail logs err, at Error for server faults and Warn otherwise, then writes it.
func Fail(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	attrs := []any{"request_id", requestcontext.RequestID(ctx), "error", err}
	if StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, msg, attrs...)
	} else {
		logger.WarnContext(ctx, msg, attrs...)
	}
	WriteError(w, err)
}

// StatusFor maps an error code onto an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeInvalidTransition, dErrors.CodeConcurrencyConflict, dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeIncompleteRoster:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
