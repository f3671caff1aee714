package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Admission outcomes
const (
	OutcomeAdmitted  = "admitted"
	OutcomeDuplicate = "duplicate"
	OutcomeFull      = "full"
	OutcomeInactive  = "inactive"
	OutcomePassed    = "passed"
	OutcomeNotFound  = "not_found"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

var (
	// HTTPRequests counts handled requests by route template, method and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exambook",
		Name:      "http_requests_total",
		Help:      "Number of HTTP requests handled.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route template
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "exambook",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Admissions counts booking admission attempts by outcome
	Admissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exambook",
		Name:      "booking_admissions_total",
		Help:      "Booking admission attempts by outcome.",
	}, []string{"outcome"})
)

// ObserveAdmission records one admission attempt
func ObserveAdmission(outcome string) {
	Admissions.WithLabelValues(outcome).Inc()
}
