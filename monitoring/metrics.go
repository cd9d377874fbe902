package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	escrowTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_transitions_total",
			Help: "Booking status transitions applied by the escrow core",
		},
		[]string{"from", "to"},
	)

	captureAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capture_attempts_total",
			Help: "Capture calls against the payment gateway",
		},
		[]string{"status"},
	)

	webhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_events_total",
			Help: "Payment webhook events by type and handling outcome",
		},
		[]string{"type", "outcome"},
	)

	otpSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_submissions_total",
			Help: "Meet-up code submissions by role and result",
		},
		[]string{"role", "result"},
	)
)

// RecordTransition counts one booking status transition.
func RecordTransition(from, to string) {
	escrowTransitions.WithLabelValues(from, to).Inc()
}

// RecordCapture counts one capture attempt outcome ("success" or "failure").
func RecordCapture(status string) {
	captureAttempts.WithLabelValues(status).Inc()
}

// RecordWebhookEvent counts one webhook delivery.
func RecordWebhookEvent(eventType, outcome string) {
	webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordOTPSubmission counts one verification submission.
func RecordOTPSubmission(role, result string) {
	otpSubmissions.WithLabelValues(role, result).Inc()
}
