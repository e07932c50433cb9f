package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobpop_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpop_reconciliations_total",
			Help: "Total number of subscription reconciliation attempts",
		},
		[]string{"trigger", "outcome"},
	)

	SubscriptionActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpop_subscription_activations_total",
			Help: "Total number of subscription activations",
		},
		[]string{"plan_type"},
	)

	OrdersSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpop_orders_submitted_total",
			Help: "Total number of payment orders submitted to the gateway",
		},
		[]string{"plan_type"},
	)

	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpop_gateway_requests_total",
			Help: "Total number of outbound payment gateway requests",
		},
		[]string{"operation", "status"},
	)

	JobsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jobpop_jobs_created_total",
			Help: "Total number of job postings created",
		},
	)

	SMSSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpop_sms_sent_total",
			Help: "Total number of SMS notifications sent",
		},
		[]string{"status"},
	)

	SMSQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobpop_sms_queue_length",
			Help: "Current length of the SMS queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReconciliation(trigger, outcome string) {
	ReconciliationsTotal.WithLabelValues(trigger, outcome).Inc()
}

func RecordActivation(planType string) {
	SubscriptionActivationsTotal.WithLabelValues(planType).Inc()
}

func RecordOrderSubmitted(planType string) {
	OrdersSubmittedTotal.WithLabelValues(planType).Inc()
}

func RecordGatewayRequest(operation, status string) {
	GatewayRequestsTotal.WithLabelValues(operation, status).Inc()
}

func RecordJobCreated() {
	JobsCreatedTotal.Inc()
}

func RecordSMS(status string) {
	SMSSentTotal.WithLabelValues(status).Inc()
}
