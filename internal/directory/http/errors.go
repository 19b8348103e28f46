package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/openferp/directory/internal/directory/domain"
	"github.com/openferp/directory/internal/directory/service"
	"github.com/openferp/directory/pkg/httpx"
	"github.com/openferp/directory/pkg/slogx"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeServiceError maps a service error onto the response envelope.
// Internal failures are logged and never echoed.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.StatusUnauthenticated, "invalid email or password")
	case errors.Is(err, service.ErrUnauthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.StatusUnauthenticated, "authentication required")
	case errors.Is(err, service.ErrForbidden):
		log.Info("request denied", slogx.KeyErr, err)
		httpx.WriteError(w, http.StatusForbidden, httpx.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrHierarchyNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.StatusNotFound, "roles and scopes not found for this enterprise")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, httpx.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, httpx.StatusInvalidInput, err.Error())
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, httpx.StatusConflict, "conflicts with an existing record")
	default:
		log.Error("request failed", slogx.KeyErr, err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.StatusError, "internal server error")
	}
}

// decodeBody decodes a JSON request body into v. Strict bodies reject
// fields v does not declare.
func decodeBody(r *http.Request, v any, strict bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", service.ErrInvalidInput, err)
	}
	return nil
}

// actor returns the identity of the authenticated caller.
func actor(r *http.Request) (domain.Identity, error) {
	ident, ok := httpx.SubjectFromContext[domain.Identity](r.Context())
	if !ok {
		return domain.Identity{}, service.ErrUnauthenticated
	}
	return ident, nil
}
