package middleware

import (
	"net/http"
	"time"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// AccessLog пишет строку на каждый запрос; ответы 5xx логируются как предупреждения
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log := logger.Info
			if rec.status >= http.StatusInternalServerError {
				log = logger.Warn
			}
			log("%s %s - status=%d, duration=%s, request_id=%s",
				r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond), GetRequestID(r.Context()))
		})
	}
}
