package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/openferp/directory/pkg/slogx"
)

// Authenticator turns a bearer token into a user id and a session subject.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (userID string, subject any, err error)
}

// AuthnMiddleware rejects requests without a valid bearer token and stores
// the authenticated subject in the request context.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			userID, subject, err := a.Authenticate(ctx, raw)
			if err != nil {
				log.Warn("bearer authentication failed", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = WithSubject(ctx, userID, subject)
			ctx = slogx.WithContext(ctx, log.With("user_id", userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, StatusUnauthenticated, desc)
}
