package api

import (
	"errors"
	"net/http"
	"time"

	"NewsGenie/internal/domain"
	"NewsGenie/internal/logging"
	"NewsGenie/internal/validation"
)

const (
	codeInvalidInput        = "invalid_input"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeInternal            = "internal_error"
	codeNotFound            = "not_found"
	codeMethodNotAllowed    = "method_not_allowed"
	codeRateLimited         = "rate_limited"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     bool                    `json:"error"`
	Code      string                  `json:"code"`
	Message   string                  `json:"message"`
	Details   []validation.FieldError `json:"details,omitempty"`
	RequestID string                  `json:"request_id,omitempty"`
	Timestamp time.Time               `json:"timestamp"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []validation.FieldError) {
	writeJSON(w, status, ErrorResponse{
		Error:     true,
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps an error kind to its HTTP status. Internal errors are
// logged and their details withheld from the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusBadRequest, codeInvalidInput, verr.Error(), verr.Fields)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, codeInvalidInput, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, codeNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		h.logger.WarnContext(r.Context(), "upstream unavailable", "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusServiceUnavailable, codeUpstreamUnavailable, "a backing service is unavailable, try again later", nil)
	default:
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, r, http.StatusInternalServerError, codeInternal, "internal server error", nil)
	}
}
