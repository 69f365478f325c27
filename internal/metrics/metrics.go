package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Redirects counts redirect resolutions by outcome: hit, not_found, error.
	Redirects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "getshort_redirect_total",
		Help: "Number of URL redirects by outcome.",
	}, []string{"status"})

	URLOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "getshort_url_operations_total",
		Help: "Number of URL management operations.",
	}, []string{"operation", "status"})

	TrackingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "getshort_visit_tracking_failures_total",
		Help: "Visit records that could not be persisted.",
	})

	RequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "getshort_request_latency_seconds",
		Help:    "Request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
	})
)

// Middleware observes wall-clock latency for every request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		RequestLatency.Observe(time.Since(start).Seconds())
	})
}
