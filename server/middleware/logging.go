package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/server/util"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// RequestLoggingMiddleware attaches a request-scoped logger to the context.
// Failed requests are always logged; successful ones only in debug mode.
func RequestLoggingMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl := util.WithRequest(log.Default(), r)
		r = r.WithContext(util.ContextWithLogger(r.Context(), rl))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start).Round(time.Millisecond)
		switch {
		case rec.status >= http.StatusInternalServerError:
			rl.Errorf("status=%d duration=%s", rec.status, elapsed)
		case cfg.Debug || rec.status >= http.StatusBadRequest:
			rl.Infof("status=%d duration=%s", rec.status, elapsed)
		}
	})
}
