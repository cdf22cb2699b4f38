package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HTTPMetrics сборщик метрик HTTP запросов
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics считает запросы и их длительность по шаблону маршрута,
// чтобы ID в пути не раздували кардинальность меток
func Metrics(m HTTPMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			m.ObserveHTTP(r.Method, routeTemplate(r), rec.status, time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unknown"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unknown"
	}
	return tpl
}
