package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/events"
	"github.com/dukerupert/airshop/internal/telemetry"
)

// transition is the status a notification drives an order to and the
// statuses it may be applied from. An order already in "to" or outside
// "from" is left as is, so a repeated notification is a no-op and a late one
// never regresses fulfilment.
type transition struct {
	to   domain.OrderStatus
	from []domain.OrderStatus
}

var (
	paidTransition = transition{
		to: domain.OrderStatusPaid,
		from: []domain.OrderStatus{
			domain.OrderStatusPending,
			domain.OrderStatusAwaitingPayment,
		},
	}
	canceledTransition = transition{
		to: domain.OrderStatusCanceled,
		from: []domain.OrderStatus{
			domain.OrderStatusPending,
			domain.OrderStatusAwaitingPayment,
		},
	}
	refundedTransition = transition{
		to: domain.OrderStatusCanceled,
		from: []domain.OrderStatus{
			domain.OrderStatusPaid,
			domain.OrderStatusProcessing,
			domain.OrderStatusShipping,
			domain.OrderStatusDelivered,
		},
	}
)

// Reconciler implements domain.Reconciler. Every notification is applied
// as one conditional update, so duplicates and reordering are harmless.
type Reconciler struct {
	store     domain.OrderStore
	publisher events.Publisher
	logger    *slog.Logger
}

var _ domain.Reconciler = (*Reconciler)(nil)

// NewReconciler creates a webhook reconciler.
func NewReconciler(store domain.OrderStore, publisher events.Publisher, logger *slog.Logger) *Reconciler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Apply folds one gateway notification into order state.
//
// Notifications for unknown payments and unknown event types succeed
// without touching the store; the gateway keeps retrying anything else.
func (r *Reconciler) Apply(ctx context.Context, n domain.WebhookNotification) (domain.ReconcileOutcome, error) {
	const op = "webhook.apply"

	if n.Event == "" || n.Object == nil || n.Object.ID == "" {
		telemetry.Business.RecordWebhookFailed(n.Event, "malformed")
		return "", domain.Invalid(op, "Invalid webhook data")
	}

	paymentID := n.Object.ID
	var t transition
	switch n.Event {
	case domain.EventPaymentSucceeded:
		if !n.Object.Paid {
			r.logger.DebugContext(ctx, "payment succeeded without paid flag, ignoring", "payment_id", paymentID)
			telemetry.Business.RecordWebhook(n.Event, string(domain.OutcomeIgnored))
			return domain.OutcomeIgnored, nil
		}
		t = paidTransition
	case domain.EventPaymentCanceled:
		t = canceledTransition
	case domain.EventRefundSucceeded:
		if n.Object.PaymentID == "" {
			telemetry.Business.RecordWebhookFailed(n.Event, "malformed")
			return "", domain.Invalid(op, "Refund notification has no payment_id")
		}
		paymentID = n.Object.PaymentID
		t = refundedTransition
	default:
		r.logger.DebugContext(ctx, "ignoring webhook event", "event", n.Event, "object_id", n.Object.ID)
		telemetry.Business.RecordWebhook(n.Event, string(domain.OutcomeIgnored))
		return domain.OutcomeIgnored, nil
	}

	telemetry.AddBreadcrumb("webhook", n.Event, map[string]interface{}{
		"payment_id": paymentID,
	})

	order, applied, err := r.store.TransitionByPaymentID(ctx, paymentID, t.to, t.from)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			r.logger.WarnContext(ctx, "webhook for unknown payment",
				"event", n.Event,
				"payment_id", paymentID,
			)
			telemetry.Business.RecordWebhook(n.Event, string(domain.OutcomeUnmatched))
			return domain.OutcomeUnmatched, nil
		}
		telemetry.Business.RecordWebhookFailed(n.Event, "storage")
		return "", err
	}

	if !applied {
		r.logger.InfoContext(ctx, "webhook left order unchanged",
			"event", n.Event,
			"order_number", order.OrderNumber,
			"status", order.Status,
		)
		telemetry.Business.RecordWebhook(n.Event, string(domain.OutcomeUnchanged))
		return domain.OutcomeUnchanged, nil
	}

	r.logger.InfoContext(ctx, "order updated from webhook",
		"event", n.Event,
		"order_number", order.OrderNumber,
		"status", order.Status,
	)
	telemetry.Business.RecordWebhook(n.Event, string(domain.OutcomeApplied))
	telemetry.Business.RecordStatusChange("webhook", string(order.Status))
	publishOrderEvent(ctx, r.publisher, r.logger, events.TypeForStatus(string(order.Status)), "webhook", order)

	return domain.OutcomeApplied, nil
}
