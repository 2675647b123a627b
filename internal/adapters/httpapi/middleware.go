package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.trai.ch/lucifer/internal/core/ports"
	"go.trai.ch/zerr"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests logs one line per request in the form
// "POST /v1/cache/invalidate 200 3ms".
func logRequests(logger ports.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logger.Info(fmt.Sprintf("%s %s %d %s",
			r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond)))
	})
}

// recoverPanics turns a handler panic into a plain 500 response.
func recoverPanics(logger ports.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer zerr.Defer(func(err error) {
			logger.Error(zerr.With(err, "path", r.URL.Path))
			writeServerError(w)
		})
		next.ServeHTTP(w, r)
	})
}

func serverHeader(value string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", value)
		next.ServeHTTP(w, r)
	})
}

func trackActivity(lifecycle *Lifecycle, next http.Handler) http.Handler {
	if lifecycle == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lifecycle.Begin()
		defer lifecycle.End()
		next.ServeHTTP(w, r)
	})
}
