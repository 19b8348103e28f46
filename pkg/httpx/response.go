package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Envelope is the body of every directory response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Envelope status values.
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

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a successful envelope carrying data.
func WriteData(w http.ResponseWriter, code int, message string, data any) {
	WriteJSON(w, code, Envelope{Status: StatusOK, Message: message, Data: data})
}

// WriteError writes a failed envelope with the given status value.
func WriteError(w http.ResponseWriter, code int, status, message string) {
	WriteJSON(w, code, Envelope{Status: status, Message: message})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// QueryList collects a list query parameter given either repeated
// (?k=a&k=b) or comma separated (?k=a,b). Blank items are dropped.
func QueryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
