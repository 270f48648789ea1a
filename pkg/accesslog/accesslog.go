// Package accesslog provides a middleware that records every RESTful API
// call in a log message.
package accesslog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KretovDmitry/squarehouse/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// logFormat uses fmt.Printf templating:
// method, path, protocol, remote address, status, bytes written, elapsed.
const logFormat = "%s %s %s from %s - %s %dB in %s"

// Handler returns a middleware that records an access log message
// for every HTTP request being processed. The request ID is echoed
// back in the X-Request-ID response header.
func Handler(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// associate request ID and correlation ID with the request context
			// so that they can be added to the log messages
			ctx := logger.WithRequest(r.Context(), r)
			r = r.WithContext(ctx)
			ww.Header().Set("X-Request-ID", logger.RequestID(ctx))

			defer func(start time.Time) {
				log.With(ctx).Infof(logFormat,
					r.Method,
					r.URL.Path,
					r.Proto,
					r.RemoteAddr,
					statusLabel(ww.Status()),
					ww.BytesWritten(),
					time.Since(start),
				)
			}(time.Now())

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(f)
	}
}

// statusLabel renders a status code with its class, e.g. "302 Redirect".
func statusLabel(status int) string {
	switch {
	case status >= 100 && status < 300:
		return fmt.Sprintf("%d OK", status)
	case status >= 300 && status < 400:
		return fmt.Sprintf("%d Redirect", status)
	case status >= 400 && status < 500:
		return fmt.Sprintf("%d Client Error", status)
	case status >= 500:
		return fmt.Sprintf("%d Server Error", status)
	default:
		return fmt.Sprintf("%d Unknown", status)
	}
}
