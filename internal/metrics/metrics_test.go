package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/jobs", "200", 0.5)

	count := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/jobs", "200"))
	assert.Equal(t, float64(1), count)
}

func TestRecordReconciliation(t *testing.T) {
	ReconciliationsTotal.Reset()

	RecordReconciliation("ipn", "activated")
	RecordReconciliation("ipn", "activated")
	RecordReconciliation("verify", "noop")

	activated := testutil.ToFloat64(ReconciliationsTotal.WithLabelValues("ipn", "activated"))
	noop := testutil.ToFloat64(ReconciliationsTotal.WithLabelValues("verify", "noop"))

	assert.Equal(t, float64(2), activated)
	assert.Equal(t, float64(1), noop)
}

func TestRecordActivation(t *testing.T) {
	SubscriptionActivationsTotal.Reset()

	RecordActivation("monthly")
	RecordActivation("monthly")
	RecordActivation("annual")

	assert.Equal(t, float64(2), testutil.ToFloat64(SubscriptionActivationsTotal.WithLabelValues("monthly")))
	assert.Equal(t, float64(1), testutil.ToFloat64(SubscriptionActivationsTotal.WithLabelValues("annual")))
}

func TestRecordGatewayRequest(t *testing.T) {
	GatewayRequestsTotal.Reset()

	RecordGatewayRequest("transaction_status", "ok")
	RecordGatewayRequest("auth", "error")

	assert.Equal(t, float64(1), testutil.ToFloat64(GatewayRequestsTotal.WithLabelValues("transaction_status", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(GatewayRequestsTotal.WithLabelValues("auth", "error")))
}
