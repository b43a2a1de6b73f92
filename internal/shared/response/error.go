package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"spacetime-server/internal/shared/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// errorPolicy decides how an error type is reported.
type errorPolicy struct {
	status int
	level  slog.Level
	msg    string
	// hide replaces the error text with the status text in the body.
	hide bool
}

var policies = map[errors.ErrorType]errorPolicy{
	errors.ErrorTypeNotFound:         {http.StatusNotFound, slog.LevelDebug, "Resource not found", false},
	errors.ErrorTypeValidation:       {http.StatusBadRequest, slog.LevelDebug, "Validation error", false},
	errors.ErrorTypeConflict:         {http.StatusConflict, slog.LevelInfo, "Conflict error", false},
	errors.ErrorTypeUnauthorized:     {http.StatusUnauthorized, slog.LevelWarn, "Authorization error", false},
	errors.ErrorTypeForbidden:        {http.StatusForbidden, slog.LevelWarn, "Authorization error", false},
	errors.ErrorTypeMethodNotAllowed: {http.StatusMethodNotAllowed, slog.LevelInfo, "Request refused", false},
	errors.ErrorTypeUnsupported:      {http.StatusNotImplemented, slog.LevelInfo, "Request refused", false},
	errors.ErrorTypeRateLimited:      {http.StatusTooManyRequests, slog.LevelInfo, "Request refused", false},
	errors.ErrorTypeExternal:         {http.StatusServiceUnavailable, slog.LevelError, "External service error", true},
	errors.ErrorTypeInternal:         {http.StatusInternalServerError, slog.LevelError, "Internal server error", true},
}

func policyFor(errorType errors.ErrorType) errorPolicy {
	if p, ok := policies[errorType]; ok {
		return p
	}
	return policies[errors.ErrorTypeInternal]
}

// StatusCode returns the HTTP status an error is reported with.
func StatusCode(err error) int {
	return policyFor(errors.GetType(err)).status
}

// Error logs err and writes it as a JSON error body. It is the only place
// where request errors are logged. Internal and external failures are
// logged in full but reported to the client by status text only.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	errorType := errors.GetType(err)
	p := policyFor(errorType)
	requestID := RequestIDFrom(r.Context())

	logger.Log(r.Context(), p.level, p.msg,
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"error_type", errorType,
		"status_code", p.status,
		"error", err,
	)

	message := err.Error()
	if p.hide {
		message = http.StatusText(p.status)
	}

	writeJSON(w, p.status, ErrorResponse{
		Error:     string(errorType),
		Message:   message,
		Code:      p.status,
		RequestID: requestID,
	})
}

// Success writes data as a JSON body. A nil data writes headers only.
func Success(w http.ResponseWriter, statusCode int, data any) {
	if data == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		return
	}
	writeJSON(w, statusCode, data)
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// The status is already sent; an encoding failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}
