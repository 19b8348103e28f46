// Package obs holds the prometheus metrics of the directory.
package obs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "directory_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "directory_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Broker metrics
var (
	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_events_published_total",
			Help: "Events published per routing key and outcome.",
		},
		[]string{"event", "route", "outcome"},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_events_consumed_total",
			Help: "Events consumed per outcome.",
		},
		[]string{"event", "outcome"},
	)
)

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeApplied   = "applied"
	OutcomeDropped   = "dropped"
	OutcomeRetry     = "retry"
	OutcomeDuplicate = "duplicate"
)

var initOnce sync.Once

// Init registers the metrics in the default registry. Safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			eventsPublished, eventsConsumed,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// EventPublished counts one publish attempt to one routing key.
func EventPublished(event, route string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	eventsPublished.WithLabelValues(event, route, outcome).Inc()
}

// EventConsumed counts one delivery handled by the subscriber.
func EventConsumed(event, outcome string) {
	if event == "" {
		event = "unknown"
	}
	eventsConsumed.WithLabelValues(event, outcome).Inc()
}

// Instrument measures request count, latency and in-flight requests.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		defer httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	})
}

// CanonicalPath folds user ids into a placeholder to bound label
// cardinality.
func CanonicalPath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if rest, ok := strings.CutPrefix(p, "/users/"); ok && rest != "" && rest != "me" && !strings.Contains(rest, "/") {
		return "/users/{id}"
	}
	return p
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
