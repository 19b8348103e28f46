package dirsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Envelope Status Codes
// ============================================================================

const (
	StatusOK              = "ok"
	StatusUnauthenticated = "unauthenticated"
	StatusForbidden       = "forbidden"
	StatusNotFound        = "not_found"
	StatusInvalidInput    = "invalid_input"
	StatusConflict        = "conflict"
	StatusRateLimited     = "rate_limited"
	StatusError           = "error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is a failed directory response.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int

	// Status is the envelope status, e.g. "forbidden"
	Status string

	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Status, e.Message)
}

// Is matches another *APIError by envelope status, so callers can test
// errors.Is(err, dirsdk.ErrForbidden).
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Status == e.Status
}

var (
	ErrUnauthenticated = &APIError{StatusCode: http.StatusUnauthorized, Status: StatusUnauthenticated}
	ErrForbidden       = &APIError{StatusCode: http.StatusForbidden, Status: StatusForbidden}
	ErrNotFound        = &APIError{StatusCode: http.StatusNotFound, Status: StatusNotFound}
	ErrInvalidInput    = &APIError{StatusCode: http.StatusBadRequest, Status: StatusInvalidInput}
	ErrConflict        = &APIError{StatusCode: http.StatusConflict, Status: StatusConflict}
	ErrRateLimited     = &APIError{StatusCode: http.StatusTooManyRequests, Status: StatusRateLimited}
)

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not an envelope (proxies, panics) fall back to the HTTP status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var env ErrorResponse
	if err := json.Unmarshal(body, &env); err == nil && env.Status != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     env.Status,
			Message:    env.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     StatusError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
