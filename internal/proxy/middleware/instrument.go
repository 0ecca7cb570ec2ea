package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver receives per-request measurements. Implemented by
// metrics.Metrics.
type RequestObserver interface {
	ObserveRequest(route string, status int, elapsed time.Duration)
}

// NewInstrumentMiddleware records request counts and latency by chi route
// pattern, so path parameters do not explode label cardinality.
func NewInstrumentMiddleware(obs RequestObserver) func(http.Handler) http.Handler {
	if obs == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				route := ""
				if rctx := chi.RouteContext(r.Context()); rctx != nil {
					route = rctx.RoutePattern()
				}
				obs.ObserveRequest(route, status, time.Since(start))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
