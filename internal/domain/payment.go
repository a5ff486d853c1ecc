package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest asks the gateway to open a payment for an order.
type CreatePaymentRequest struct {
	OrderNumber   string          `json:"orderNumber" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	ReturnURL     string          `json:"returnUrl" validate:"omitempty,url"`
	PaymentMethod string          `json:"paymentMethod" validate:"omitempty,oneof=bank_card sbp"`

	// IdempotencyKey overrides the derived key when the caller supplies one.
	IdempotencyKey string `json:"-"`
}

// PaymentResult is a created gateway payment.
type PaymentResult struct {
	Success         bool   `json:"success"`
	PaymentID       string `json:"payment_id"`
	ConfirmationURL string `json:"confirmation_url"`
	Status          string `json:"status"`
}

// PaymentStatusResult is the gateway's view of a payment.
type PaymentStatusResult struct {
	Success   bool            `json:"success"`
	Status    string          `json:"status"`
	Paid      bool            `json:"paid"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// RefundRequest asks the gateway to return money. A nil Amount refunds in full.
type RefundRequest struct {
	PaymentID string           `json:"payment_id" validate:"required"`
	Amount    *decimal.Decimal `json:"amount"`

	IdempotencyKey string `json:"-"`
}

// RefundResult is the gateway's view of a refund.
type RefundResult struct {
	Success   bool            `json:"success"`
	RefundID  string          `json:"refund_id,omitempty"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}

// PaymentService orchestrates gateway calls against stored orders.
type PaymentService interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*PaymentResult, error)
	CheckStatus(ctx context.Context, paymentID string) (*PaymentStatusResult, error)

	// Refund cancels the matching order only when the gateway accepts the refund.
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	GetRefund(ctx context.Context, refundID string) (*RefundResult, error)
}

// WebhookObject is the payment or refund carried by a notification.
type WebhookObject struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Paid      bool   `json:"paid"`
	PaymentID string `json:"payment_id"`
}

// WebhookNotification is an asynchronous gateway event.
type WebhookNotification struct {
	Type   string         `json:"type"`
	Event  string         `json:"event"`
	Object *WebhookObject `json:"object"`
}

// Webhook event names understood by the reconciler.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
	EventRefundSucceeded  = "refund.succeeded"
)

// ReconcileOutcome describes what applying a notification did.
type ReconcileOutcome string

const (
	OutcomeApplied   ReconcileOutcome = "applied"
	OutcomeUnchanged ReconcileOutcome = "unchanged"
	OutcomeUnmatched ReconcileOutcome = "unmatched"
	OutcomeIgnored   ReconcileOutcome = "ignored"
)

// Reconciler folds gateway notifications into order state.
type Reconciler interface {
	Apply(ctx context.Context, n WebhookNotification) (ReconcileOutcome, error)
}
