package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	requestsTotal       *prometheus.CounterVec
	latencySeconds      *prometheus.HistogramVec
	submissionsAccepted prometheus.Counter
	submissionsRejected *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the diary API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diary_requests_total",
			Help: "Total number of diary API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diary_latency_seconds",
			Help:    "Latency distribution for diary API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		submissionsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diary_submissions_accepted_total",
			Help: "Total number of accepted diary submissions.",
		})

		submissionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diary_submissions_rejected_total",
			Help: "Total number of rejected diary submissions by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(requestsTotal, latencySeconds, submissionsAccepted, submissionsRejected)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// SubmissionsAccepted exposes the accepted-submission counter.
func SubmissionsAccepted() prometheus.Counter {
	RegisterMetrics()
	return submissionsAccepted
}

// SubmissionsRejected exposes the rejected-submission counter.
func SubmissionsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsRejected
}
