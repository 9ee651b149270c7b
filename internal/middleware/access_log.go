package middleware

import (
	"net/http"
	"strconv"
	"time"

	"plant-disease-history/internal/platform/logger"
	"plant-disease-history/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog loguea cada request y observa la latencia por route pattern (no por path crudo).
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dur := time.Since(start)

			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(dur.Seconds())

			log.Debug("request", map[string]any{
				"method":     r.Method,
				"route":      route,
				"status":     status,
				"duration":   dur.String(),
				"request_id": chimw.GetReqID(r.Context()),
			})
		})
	}
}
