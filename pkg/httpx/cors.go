package httpx

import (
	"net/http"

	"github.com/rs/cors"
)

// DevOrigins are allowed when no explicit origin list is configured in the
// dev and test environments.
var DevOrigins = []string{
	"http://localhost:9080",
	"http://localhost:8080",
	"http://localhost:3000",
	"http://localhost:8000",
}

// CORS allows credentialed requests from the given origins with any
// method and header the directory uses.
func CORS(origins []string) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
	})
	return c.Handler
}
