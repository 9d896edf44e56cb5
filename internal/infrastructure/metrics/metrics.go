// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	verifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_verify_requests_total",
			Help: "Verification requests by result (success/failed/invalid/error).",
		},
		[]string{"result"},
	)

	verifyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "activation_verify_duration_seconds",
			Help:    "Latency of verification including the audit write.",
			Buckets: prometheus.DefBuckets,
		},
	)

	verifyLogFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_verify_log_failures_total",
			Help: "Verification log writes that failed and were dropped.",
		},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		},
	)

	retentionDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activation_log_retention_deleted_total",
			Help: "Verification log rows removed by the retention sweep.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			verifyRequests, verifyDuration, verifyLogFailures,
			rateLimited, retentionDeleted,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ObserveVerify records one verification call
func ObserveVerify(result string, elapsed time.Duration) {
	verifyRequests.WithLabelValues(norm(result)).Inc()
	verifyDuration.Observe(elapsed.Seconds())
}

func IncVerifyLogFailure() { verifyLogFailures.Inc() }

func IncRateLimited() { rateLimited.Inc() }

func AddRetentionDeleted(n int64) {
	if n > 0 {
		retentionDeleted.Add(float64(n))
	}
}
