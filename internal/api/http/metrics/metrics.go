package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeMailFault    = "mail_fault"
	OutcomeConflict     = "conflict"
	OutcomeValidation   = "validation_error"
	OutcomeStorageFault = "storage_fault"
	OutcomeCryptoFault  = "crypto_fault"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrollment_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_registrations_total",
			Help: "Total registration attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Middleware records request duration labelled by route pattern. The raw
// path is never used since it can carry a verification token.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequestDuration.WithLabelValues(r.Method, RoutePattern(r), strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// RecordRegistration counts one registration attempt.
func RecordRegistration(outcome string) {
	registrations.WithLabelValues(outcome).Inc()
}

// RoutePattern returns the matched chi pattern, or "unmatched".
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
