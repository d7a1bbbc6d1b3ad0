package edbo

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edbo",
		Name:      "client_request_attempts_total",
		Help:      "Registry request attempts by operation and outcome",
	}, []string{
		"operation", // universities|university|institutions|school
		"code",      // HTTP status code, or 0 on transport failure
		"retry",     // whether another attempt follows
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "edbo",
		Name:      "client_request_duration_seconds",
		Help:      "Registry request attempt latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"operation"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edbo",
		Name:      "client_cache_total",
		Help:      "Response cache lookups by operation and result",
	}, []string{"operation", "result"})
)

func observeAttempt(operation string, status int, duration time.Duration, err error, retry bool) {
	code := strconv.Itoa(status)
	if err != nil {
		code = "0"
	}
	requestAttempts.WithLabelValues(operation, code, strconv.FormatBool(retry)).Inc()
	requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func observeCache(operation, result string) {
	cacheRequests.WithLabelValues(operation, result).Inc()
}
