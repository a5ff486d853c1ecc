package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var m *BusinessMetrics

	assert.NotPanics(t, func() {
		m.RecordOrderCreated("card", 100, 1)
		m.RecordStatusChange("webhook", "paid")
		m.RecordPaymentCreated("")
		m.RecordPaymentFailed("rejected")
		m.RecordWebhook("payment.succeeded", "applied")
		m.RecordWebhookFailed("", "invalid")
		m.RecordRefund("succeeded", 10)
		m.RecordLogin("success")
		m.ObserveGateway("create_payment", time.Now(), nil)
	})
}

func TestBusinessMetrics_Record(t *testing.T) {
	m := NewBusinessMetricsWith(prometheus.NewRegistry(), "test")

	m.RecordOrderCreated("card", 2700, 2)
	m.RecordWebhook("payment.succeeded", "applied")
	m.RecordWebhook("payment.succeeded", "unchanged")
	m.RecordRefund("succeeded", 150.5)
	m.RecordPaymentCreated("")
	m.ObserveGateway("create_payment", time.Now(), errors.New("timeout"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.OrdersCreated.WithLabelValues("card")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.WebhookReceived.WithLabelValues("payment.succeeded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookProcessed.WithLabelValues("payment.succeeded", "unchanged")))
	assert.Equal(t, 150.5, testutil.ToFloat64(m.RefundAmount))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PaymentsCreated.WithLabelValues("any")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GatewayLatency))
}
