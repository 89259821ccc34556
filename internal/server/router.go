package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP API router. The /api routes sit behind the
// per-client rate limiter; probe endpoints stay outside it so Kubernetes
// never gets throttled.
func NewRouter(sc *ServerContext, health *HealthChecker, limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(sc.requestMetrics)

	health.RegisterHealthEndpoints(r)

	r.Get("/api/health", sc.HandleHealth)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware())

		r.Post("/api/load-sheet", sc.HandleLoadSheet)
		r.Post("/api/drafts", sc.HandleDrafts)
	})

	return r
}

// requestMetrics records one http_requests_total sample per request, keyed
// by the chi route pattern rather than the raw URL.
func (sc *ServerContext) requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		if sc.provider == nil {
			return
		}

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		sc.provider.Metrics().RecordHTTPRequest(r.Context(), r.Method, pattern, ww.Status(), time.Since(start))
	})
}
