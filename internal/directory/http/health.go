package http

import (
	"net/http"
	"time"

	"github.com/openferp/directory/internal/directory/store"
	"github.com/openferp/directory/pkg/dirsdk"
	"github.com/openferp/directory/pkg/httpx"
	"github.com/openferp/directory/pkg/jwtx"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	dirsdk.Response[dirsdk.HealthResponse]	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteData(w, http.StatusOK, "", dirsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	A disabled broker does not make the service unready
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	dirsdk.Response[dirsdk.HealthResponse]	"status, uptime, version, checks"
//	@Failure		503	{object}	dirsdk.Response[dirsdk.HealthResponse]	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	brokerReady func() bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &dirsdk.HealthChecks{
			Database: "ok",
			Broker:   "disabled",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if brokerReady != nil {
			checks.Broker = "ok"
			if !brokerReady() {
				checks.Broker = "error: not connected"
				overallStatus = "degraded"
				statusCode = http.StatusServiceUnavailable
			}
		}

		health := dirsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		if statusCode != http.StatusOK {
			httpx.WriteJSON(w, statusCode, httpx.Envelope{Status: httpx.StatusError, Message: "service not ready", Data: health})
			return
		}
		httpx.WriteData(w, statusCode, "", health)
	}
}

// JWKSHandler exposes the public keys that verify session tokens.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify access tokens. Empty when tokens are signed with a shared secret.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	dirsdk.Response[dirsdk.JWKSResponse]	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeyRing) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set := keys.PublicJWKS()
		out := dirsdk.JWKSResponse{Keys: make([]dirsdk.JWK, 0, len(set.Keys))}
		for _, k := range set.Keys {
			out.Keys = append(out.Keys, dirsdk.JWK(k))
		}
		httpx.WriteData(w, http.StatusOK, "", out)
	}
}
