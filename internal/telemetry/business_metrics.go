package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
// All record methods are safe on a nil receiver so services can run without
// metrics in tests.
type BusinessMetrics struct {
	// Orders
	OrdersCreated      *prometheus.CounterVec
	OrderValue         *prometheus.HistogramVec
	OrderItemCount     *prometheus.HistogramVec
	OrderStatusChanges *prometheus.CounterVec

	// Payments
	PaymentsCreated *prometheus.CounterVec
	PaymentsFailed  *prometheus.CounterVec

	// Webhooks
	WebhookReceived  *prometheus.CounterVec
	WebhookProcessed *prometheus.CounterVec
	WebhookFailed    *prometheus.CounterVec

	// Refunds
	RefundsIssued *prometheus.CounterVec
	RefundAmount  prometheus.Counter

	// Auth
	Logins *prometheus.CounterVec

	// External API performance
	GatewayLatency *prometheus.HistogramVec
}

// NewBusinessMetrics creates and registers all business metrics on the
// default registry.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	return NewBusinessMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewBusinessMetricsWith registers the metrics on reg.
func NewBusinessMetricsWith(reg prometheus.Registerer, namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "airshop"
	}

	subsystem := "business"
	factory := promauto.With(reg)

	m := &BusinessMetrics{
		// =======================================================================
		// Orders
		// =======================================================================
		OrdersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_created_total",
				Help:      "Total orders created",
			},
			[]string{"payment_method"},
		),
		OrderValue: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_rub",
				Help:      "Order total amount distribution in rubles",
				Buckets:   []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
			},
			[]string{"payment_method"},
		),
		OrderItemCount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_item_count",
				Help:      "Number of lines per order",
				Buckets:   []float64{1, 2, 3, 5, 10, 20},
			},
			[]string{"payment_method"},
		),
		OrderStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_status_changes_total",
				Help:      "Order status transitions by source",
			},
			[]string{"source", "status"}, // source: webhook, admin, refund
		),

		// =======================================================================
		// Payments
		// =======================================================================
		PaymentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payments_created_total",
				Help:      "Total gateway payments created",
			},
			[]string{"payment_method"},
		),
		PaymentsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payments_failed_total",
				Help:      "Total failed payment creations by failure kind",
			},
			[]string{"kind"}, // kind: rejected, unavailable, malformed
		),

		// =======================================================================
		// Webhooks
		// =======================================================================
		WebhookReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhooks_received_total",
				Help:      "Total webhooks received from the payment gateway",
			},
			[]string{"event"},
		),
		WebhookProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhooks_processed_total",
				Help:      "Total webhooks processed by outcome",
			},
			[]string{"event", "outcome"}, // outcome: applied, unchanged, unmatched, ignored
		),
		WebhookFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "webhooks_failed_total",
				Help:      "Total webhooks rejected or failed",
			},
			[]string{"event", "reason"},
		),

		// =======================================================================
		// Refunds
		// =======================================================================
		RefundsIssued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refunds_issued_total",
				Help:      "Total refunds requested by gateway status",
			},
			[]string{"status"},
		),
		RefundAmount: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "refund_amount_rub_total",
				Help:      "Total refunded amount in rubles",
			},
		),

		// =======================================================================
		// Auth
		// =======================================================================
		Logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "admin_logins_total",
				Help:      "Admin login attempts by result",
			},
			[]string{"result"}, // result: success, invalid, disabled
		),

		// =======================================================================
		// External API Performance
		// =======================================================================
		GatewayLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_api_duration_seconds",
				Help:      "Payment gateway call duration (helps differentiate app slowness from gateway issues)",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation", "outcome"}, // operation: create_payment, get_payment, create_refund, get_refund
		),
	}

	return m
}

func (m *BusinessMetrics) RecordOrderCreated(paymentMethod string, total float64, lines int) {
	if m == nil {
		return
	}
	m.OrdersCreated.WithLabelValues(paymentMethod).Inc()
	m.OrderValue.WithLabelValues(paymentMethod).Observe(total)
	m.OrderItemCount.WithLabelValues(paymentMethod).Observe(float64(lines))
}

func (m *BusinessMetrics) RecordStatusChange(source, status string) {
	if m == nil {
		return
	}
	m.OrderStatusChanges.WithLabelValues(source, status).Inc()
}

func (m *BusinessMetrics) RecordPaymentCreated(paymentMethod string) {
	if m == nil {
		return
	}
	if paymentMethod == "" {
		paymentMethod = "any"
	}
	m.PaymentsCreated.WithLabelValues(paymentMethod).Inc()
}

func (m *BusinessMetrics) RecordPaymentFailed(kind string) {
	if m == nil {
		return
	}
	m.PaymentsFailed.WithLabelValues(kind).Inc()
}

func (m *BusinessMetrics) RecordWebhook(event, outcome string) {
	if m == nil {
		return
	}
	m.WebhookReceived.WithLabelValues(event).Inc()
	m.WebhookProcessed.WithLabelValues(event, outcome).Inc()
}

func (m *BusinessMetrics) RecordWebhookFailed(event, reason string) {
	if m == nil {
		return
	}
	m.WebhookReceived.WithLabelValues(event).Inc()
	m.WebhookFailed.WithLabelValues(event, reason).Inc()
}

func (m *BusinessMetrics) RecordRefund(status string, amount float64) {
	if m == nil {
		return
	}
	m.RefundsIssued.WithLabelValues(status).Inc()
	if amount > 0 {
		m.RefundAmount.Add(amount)
	}
}

func (m *BusinessMetrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// ObserveGateway records the duration of a gateway call started at start.
func (m *BusinessMetrics) ObserveGateway(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.GatewayLatency.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}

// Global instance for easy access from services and handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace)
	return Business
}
