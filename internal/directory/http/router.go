package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openferp/directory/internal/directory/obs"
	"github.com/openferp/directory/internal/directory/service"
	"github.com/openferp/directory/internal/directory/store"
	"github.com/openferp/directory/pkg/httpx"
	"github.com/openferp/directory/pkg/jwtx"
	"github.com/openferp/directory/pkg/slogx"

	_ "github.com/openferp/directory/api/directory" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyRing
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       httpx.RateLimits

	store             store.Store
	SessionService    *service.SessionService
	UserService       *service.UserService
	EnterpriseService *service.EnterpriseService

	// BrokerReady reports the broker connection state. Nil when the broker
	// is disabled.
	BrokerReady func() bool
}

func NewRouter(
	keys *jwtx.KeyRing,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	limits httpx.RateLimits,
	corsOrigins []string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		limits:       limits,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		obs.Instrument,
		httpx.CORS(corsOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerEnterprise()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			OpenFERP Directory API
//	@version		0.1.0
//	@description	Multi-tenant directory of enterprises, users, roles and scopes.
//	@description
//	@description				Every change is announced to the other OpenFERP services over AMQP.
//
//	@contact.name				OpenFERP
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	h := &SessionHandler{SessionService: r.SessionService}

	// POST /auth/login - strict, keyed by IP + username against brute force
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(r.limits.Strict, "username"),
		),
	)

	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.limits.Moderate),
		),
	)

	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

func (r *Router) registerEnterprise() {
	h := &EnterpriseHandler{EnterpriseService: r.EnterpriseService}

	// POST /enterprise/signup - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /enterprise/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(r.limits.Strict),
		),
	)

	r.Mux.Handle("GET /enterprise", r.read(h.HandleGet))
	r.Mux.Handle("GET /enterprise/full", r.read(h.HandleGetFull))
	r.Mux.Handle("PUT /enterprise", r.write(h.HandleUpdate))
	r.Mux.Handle("DELETE /enterprise", r.write(h.HandleDelete))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("POST /users/{$}", r.write(h.HandleCreate))
	r.Mux.Handle("GET /users/{$}", r.read(h.HandleList))
	r.Mux.Handle("GET /users/me", r.read(h.HandleMe))
	r.Mux.Handle("PUT /users/me", r.write(h.HandleUpdateMe))
	r.Mux.Handle("GET /users/{id}", r.read(h.HandleGet))
	r.Mux.Handle("PUT /users/{id}", r.write(h.HandleUpdate))
	r.Mux.Handle("DELETE /users/{id}", r.write(h.HandleDelete))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.BrokerReady),
			httpx.RateLimitByIP(r.limits.Lenient),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(obs.Handler(),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
}

// read guards an authenticated read.
func (r *Router) read(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.SessionService),
		httpx.RateLimitByUser(r.limits.Lenient),
	)
}

// write guards an authenticated mutation.
func (r *Router) write(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.SessionService),
		httpx.RateLimitByUser(r.limits.Moderate),
	)
}
