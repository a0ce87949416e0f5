package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/philly/chirp/internal/adapters/rest"
	"github.com/philly/chirp/internal/platform/logger"
	"github.com/philly/chirp/internal/platform/metrics"
	"github.com/philly/chirp/internal/web"
)

// NewHTTPServer serves the API tier and the web tier from one router.
func NewHTTPServer(config Config, api *rest.Server, webApp *web.App, log logger.Logger) *http.Server {
	r := newRouter(log)
	api.Routes(r)
	webApp.Routes(r)
	return newServer(config, r)
}

// NewWebHTTPServer serves only the web tier; posts come from a remote API tier.
func NewWebHTTPServer(config Config, webApp *web.App, log logger.Logger) *http.Server {
	r := newRouter(log)
	webApp.Routes(r)
	return newServer(config, r)
}

func newRouter(log logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(log))
	r.Use(metrics.Middleware)

	r.Handle("/metrics", metrics.Handler())
	return r
}

func newServer(config Config, r chi.Router) *http.Server {
	return &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// requestLogger logs one line per request once it completes
func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Use chi's response writer wrapper to capture status code and bytes written
			wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrr, r)

			log.Info(r.Context(), "HTTP request completed",
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrr.Status(),
				"bytes", wrr.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}
