package logger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

// HTTPMiddleware logs one line per request and puts a request scoped logger
// into the request context.
func HTTPMiddleware(logger interfaces.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := r.Context()
			if id := middleware.GetReqID(ctx); id != "" {
				ctx = WithRequestID(ctx, id)
			}
			reqLogger := logger.WithContext(ctx)
			ctx = WithContext(ctx, reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []interfaces.Field{
				interfaces.String("method", r.Method),
				interfaces.String("path", r.URL.Path),
				interfaces.Int("status", status),
				interfaces.Int("bytes", ww.BytesWritten()),
				interfaces.Int64("duration_ms", time.Since(start).Milliseconds()),
			}

			switch {
			case status >= http.StatusInternalServerError:
				reqLogger.Error("HTTP request failed", fields...)
			case status >= http.StatusBadRequest:
				reqLogger.Warn("HTTP request rejected", fields...)
			default:
				reqLogger.Info("HTTP request completed", fields...)
			}
		})
	}
}
