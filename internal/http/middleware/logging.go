// Package middleware holds the mux middlewares shared by every route.
package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
)

type options struct {
	skips map[string]struct{}
}

type Option func(*options)

// WithSkips excludes exact paths, usually health probes, from the log.
func WithSkips(paths ...string) Option {
	return func(o *options) {
		for _, p := range paths {
			o.skips[p] = struct{}{}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// LogRequests logs one line per request with method, path, status and
// duration. 5xx responses log at error level, 4xx at warn.
func LogRequests(opts ...Option) mux.MiddlewareFunc {
	o := &options{skips: map[string]struct{}{}}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, skip := o.skips[r.URL.Path]; skip {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			entry := logger.WithFields(map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote":      r.RemoteAddr,
			})
			switch {
			case rec.status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case rec.status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request")
			}
		})
	}
}
