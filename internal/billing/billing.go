package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Provider defines the interface for the external payment gateway.
// Implementations are retry-free: every method performs at most one HTTP
// send and reports failures as *GatewayError.
type Provider interface {
	// CreatePayment opens a redirect payment for an order.
	// The call carries exactly one idempotency key, params.IdempotencyKey.
	CreatePayment(ctx context.Context, params CreatePaymentParams) (*Payment, error)

	// GetPayment retrieves the gateway's current view of a payment.
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)

	// CreateRefund returns money for a payment. A nil Amount refunds the
	// full payment amount as determined by the gateway.
	CreateRefund(ctx context.Context, params RefundParams) (*Refund, error)

	// GetRefund retrieves an existing refund.
	GetRefund(ctx context.Context, refundID string) (*Refund, error)
}

// CreatePaymentParams contains parameters for creating a payment.
type CreatePaymentParams struct {
	// Amount is the total to charge, in major currency units.
	Amount decimal.Decimal

	OrderNumber   string
	CustomerEmail string
	CustomerPhone string

	// ReturnURL is where the customer lands after confirming the payment.
	ReturnURL string

	// PaymentMethod optionally forces a method: "bank_card" or "sbp".
	PaymentMethod string

	// ReceiptItems are the fiscal receipt lines. When empty no receipt is sent.
	ReceiptItems []ReceiptItem

	// IdempotencyKey is sent as the Idempotence-Key header.
	IdempotencyKey string
}

// ReceiptItem is one fiscal receipt line.
type ReceiptItem struct {
	Description string
	Quantity    int32

	// UnitPrice is the price of a single unit.
	UnitPrice decimal.Decimal

	// VATCode overrides the provider's configured VAT code when non-zero.
	VATCode int

	// Subject is the fiscal payment subject. Empty means SubjectCommodity.
	Subject string
}

// Fiscal payment subjects for receipt lines.
const (
	SubjectCommodity = "commodity"
	SubjectService   = "service"
)

// Payment represents a gateway payment.
type Payment struct {
	ID              string
	Status          string
	Paid            bool
	Amount          decimal.Decimal
	Currency        string
	ConfirmationURL string
	CreatedAt       time.Time
}

// RefundParams contains parameters for creating a refund.
type RefundParams struct {
	PaymentID string

	// Amount is optional. Nil means a full refund.
	Amount *decimal.Decimal

	IdempotencyKey string
}

// Refund represents a gateway refund.
type Refund struct {
	ID        string
	PaymentID string
	Status    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Gateway statuses the rest of the application inspects.
const (
	PaymentStatusPending           = "pending"
	PaymentStatusWaitingForCapture = "waiting_for_capture"
	PaymentStatusSucceeded         = "succeeded"
	PaymentStatusCanceled          = "canceled"

	RefundStatusSucceeded = "succeeded"
	RefundStatusCanceled  = "canceled"
)
