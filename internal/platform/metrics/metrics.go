// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultBusy    = "busy"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_http_requests_total",
		Help: "HTTP requests served, by route pattern, method and status code",
	}, []string{"route", "method", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chirp_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
	}, []string{"route", "method"})

	// FeedFetches counts feed store refetches by result.
	FeedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_feed_fetches_total",
		Help: "Feed refetches issued by the feed store",
	}, []string{"result"})

	// FeedInvalidations counts explicit feed invalidations.
	FeedInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_feed_invalidations_total",
		Help: "Times the feed cache was marked stale",
	})

	// ComposerSubmissions counts composer submissions by result.
	ComposerSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_composer_submissions_total",
		Help: "Post submissions from the composer",
	}, []string{"result"})

	// LiveClients tracks open live-feed websocket connections.
	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chirp_live_clients",
		Help: "Open live feed websocket connections",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per chi route pattern.
// Unmatched requests are labelled "unmatched" to keep cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
