package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openferp/directory/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct{}

func (fakeAuth) Authenticate(_ context.Context, token string) (string, any, error) {
	if token != "good" {
		return "", nil, errors.New("bad token")
	}
	return "u1", "subject-of-u1", nil
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.ChainFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}, mark("outer"), mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestAuthnMiddleware(t *testing.T) {
	h := httpx.AuthnMiddleware(fakeAuth{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := httpx.SubjectFromContext[string](r.Context())
		require.True(t, ok)
		id, _ := httpx.UserIDFromContext(r.Context())
		httpx.WriteData(w, http.StatusOK, "", map[string]string{"id": id, "sub": sub})
	}))

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"good token", "Bearer good", http.StatusOK},
		{"case insensitive scheme", "bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.code, rec.Code)

			var env httpx.Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			if tt.code == http.StatusUnauthorized {
				require.Equal(t, httpx.StatusUnauthenticated, env.Status)
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
			} else {
				require.Equal(t, httpx.StatusOK, env.Status)
				require.Equal(t, map[string]any{"id": "u1", "sub": "subject-of-u1"}, env.Data)
			}
		})
	}
}

func TestQueryList(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users/?scope_names=Sells,%20All&scope_names=HumanResource&scope_names=", nil)
	require.Equal(t, []string{"Sells", "All", "HumanResource"}, httpx.QueryList(req, "scope_names"))
	require.Nil(t, httpx.QueryList(req, "role_ids"))
}

func TestCORS(t *testing.T) {
	h := httpx.CORS([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/users/me", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
