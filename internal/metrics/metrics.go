package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zippyhand",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zippyhand",
			Name:      "bookings_submitted_total",
			Help:      "Bookings accepted and durably created.",
		},
	)

	validationRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zippyhand",
			Name:      "booking_validation_rejections_total",
			Help:      "Booking submissions rejected before any store call, by field.",
		},
		[]string{"field"},
	)

	adminActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zippyhand",
			Name:      "admin_actions_total",
			Help:      "Moderation actions performed, by action.",
		},
		[]string{"action"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "zippyhand",
			Name:      "admin_active_sessions",
			Help:      "Currently valid admin sessions known to this process.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsSubmitted,
			validationRejections,
			adminActions,
			activeSessions,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBookingSubmitted counts one accepted booking.
func IncBookingSubmitted() {
	bookingsSubmitted.Inc()
}

// IncValidationRejection counts one field-level rejection.
func IncValidationRejection(field string) {
	validationRejections.WithLabelValues(field).Inc()
}

// IncAdminAction counts one moderation action.
func IncAdminAction(action string) {
	adminActions.WithLabelValues(action).Inc()
}

// SessionOpened / SessionClosed track the active session gauge.
func SessionOpened() { activeSessions.Inc() }
func SessionClosed() { activeSessions.Dec() }
