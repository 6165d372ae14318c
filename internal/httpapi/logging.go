package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/bonuswiser/internal/metrics"
)

// requestLogger logs each request once it completes and records its latency
// under the matched route pattern.
func requestLogger(m *metrics.BonusMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			m.ObserveRequest(route, strconv.Itoa(status), elapsed.Seconds())

			attrs := []any{
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"request_id", chimw.GetReqID(r.Context()),
				"duration_ms", elapsed.Milliseconds(),
			}
			switch {
			case status >= 500:
				slog.Error("Request completed", attrs...)
			case status >= 400:
				slog.Warn("Request completed", attrs...)
			default:
				slog.Info("Request completed", attrs...)
			}
		})
	}
}
