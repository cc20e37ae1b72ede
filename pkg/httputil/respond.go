package httputil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/fatou/pkg/errors"
)

// ErrorResponse is the JSON envelope for error responses.
type ErrorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure here cannot be
	// reported to the client.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as a JSON error response. The HTTP status is
// derived from the error code via [StatusFor], and the message comes from
// [errors.UserMessage] so internal wrapping never leaks to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	WriteJSON(w, StatusFor(code), ErrorResponse{
		Error: errors.UserMessage(err),
		Code:  code,
	})
}

// StatusFor maps an error code to an HTTP status code. Validation codes
// map to 400, not-found codes to 404, and transient conditions to their
// conventional 4xx/5xx statuses. Unknown codes map to 500.
func StatusFor(code errors.Code) int {
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(string(code), "NOT_FOUND"):
		return http.StatusNotFound
	case code == errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case code == errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case code == errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
