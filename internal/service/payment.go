package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dukerupert/airshop/internal/billing"
	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/events"
	"github.com/dukerupert/airshop/internal/telemetry"
)

// shippingReceiptLine describes the delivery fee on fiscal receipts.
const shippingReceiptLine = "Доставка"

// PaymentService implements domain.PaymentService on top of a billing.Provider.
type PaymentService struct {
	store     domain.OrderStore
	provider  billing.Provider
	publisher events.Publisher
	validate  *Validator
	logger    *slog.Logger

	// returnURL is used when the request does not name one.
	returnURL string
}

var _ domain.PaymentService = (*PaymentService)(nil)

// NewPaymentService creates a payment service.
func NewPaymentService(store domain.OrderStore, provider billing.Provider, publisher events.Publisher, returnURL string, logger *slog.Logger) *PaymentService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentService{
		store:     store,
		provider:  provider,
		publisher: publisher,
		validate:  NewValidator(),
		logger:    logger,
		returnURL: returnURL,
	}
}

// CreatePayment opens a gateway payment for an unpaid order and records it.
//
// The idempotency key is derived from the order number and the attempt
// counter, which only advances once a payment is attached. Retrying after a
// timeout therefore repeats the key and the gateway returns the payment it
// may already have created. A caller-supplied key takes precedence.
func (s *PaymentService) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.PaymentResult, error) {
	const op = "payment.create"

	if err := s.validate.Struct(op, req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, domain.NewValidationError(op, "amount", "must be greater than 0")
	}

	order, err := s.store.GetByNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if order.Status.IsPaidOrLater() || order.Status.IsTerminal() {
		return nil, domain.ErrPaymentLocked
	}
	if !req.Amount.Equal(order.TotalAmount) {
		return nil, domain.NewValidationError(op, "amount", "must equal the order total "+order.TotalAmount.StringFixed(2))
	}
	if order.PaymentID != nil {
		if err := s.checkPreviousPayment(ctx, op, order); err != nil {
			return nil, err
		}
	}

	key := req.IdempotencyKey
	if key == "" {
		key = billing.PaymentIdempotencyKey(order.OrderNumber, order.PaymentAttempts+1)
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = s.returnURL
	}

	receipt := make([]billing.ReceiptItem, 0, len(order.Items))
	for _, item := range order.Items {
		receipt = append(receipt, billing.ReceiptItem{
			Description: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.ProductPrice,
		})
	}
	if order.ShippingCost.IsPositive() {
		receipt = append(receipt, billing.ReceiptItem{
			Description: shippingReceiptLine,
			Quantity:    1,
			UnitPrice:   order.ShippingCost,
			Subject:     billing.SubjectService,
		})
	}
	method := req.PaymentMethod
	if method == "" {
		method = gatewayMethod(order.PaymentMethod)
	}

	ctx, finish := telemetry.StartSpan(ctx, "payment.create", order.OrderNumber)
	defer finish()

	start := time.Now()
	payment, err := s.provider.CreatePayment(ctx, billing.CreatePaymentParams{
		Amount:         req.Amount,
		OrderNumber:    order.OrderNumber,
		CustomerEmail:  order.Customer.Email,
		CustomerPhone:  order.Customer.Phone,
		ReturnURL:      returnURL,
		PaymentMethod:  method,
		ReceiptItems:   receipt,
		IdempotencyKey: key,
	})
	telemetry.Business.ObserveGateway("create_payment", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "gateway payment creation failed",
			"error", err,
			"order_number", order.OrderNumber,
			"retryable", billing.IsRetryable(err),
		)
		telemetry.Business.RecordPaymentFailed(gatewayErrorKind(err))
		return nil, gatewayError(err, op)
	}

	updated, err := s.store.AttachPayment(ctx, order.ID, payment.ID)
	if err != nil {
		// The gateway holds a payment the order does not know about. A
		// webhook for it will be logged as unmatched.
		s.logger.ErrorContext(ctx, "failed to attach payment to order",
			"error", err,
			"order_id", order.ID,
			"payment_id", payment.ID,
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment created",
		"order_number", updated.OrderNumber,
		"payment_id", payment.ID,
		"status", payment.Status,
		"attempt", updated.PaymentAttempts,
	)
	telemetry.Business.RecordPaymentCreated(method)
	telemetry.AddBreadcrumb("payment", "payment created", map[string]interface{}{
		"order_number": updated.OrderNumber,
		"payment_id":   payment.ID,
	})

	return &domain.PaymentResult{
		Success:         true,
		PaymentID:       payment.ID,
		ConfirmationURL: payment.ConfirmationURL,
		Status:          payment.Status,
	}, nil
}

// checkPreviousPayment looks at the payment a new attempt would replace. A
// payment that already went through locks the order; a still pending one is
// replaced, and its webhook will be logged as unmatched.
func (s *PaymentService) checkPreviousPayment(ctx context.Context, op string, order *domain.Order) error {
	previousID := *order.PaymentID

	start := time.Now()
	previous, err := s.provider.GetPayment(ctx, previousID)
	telemetry.Business.ObserveGateway("get_payment", start, err)
	if err != nil {
		err = gatewayError(err, op)
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil
		}
		return err
	}

	switch previous.Status {
	case billing.PaymentStatusSucceeded, billing.PaymentStatusWaitingForCapture:
		s.logger.WarnContext(ctx, "previous payment already went through",
			"order_number", order.OrderNumber,
			"payment_id", previousID,
			"status", previous.Status,
		)
		return domain.ErrPaymentLocked
	case billing.PaymentStatusPending:
		s.logger.WarnContext(ctx, "replacing pending payment",
			"order_number", order.OrderNumber,
			"payment_id", previousID,
		)
	}
	return nil
}

// gatewayMethod maps the checkout payment method to the gateway's method type.
func gatewayMethod(m domain.PaymentMethod) string {
	switch m {
	case domain.PaymentMethodCard:
		return "bank_card"
	case domain.PaymentMethodSBP:
		return "sbp"
	default:
		return ""
	}
}

// CheckStatus proxies the gateway's view of a payment.
func (s *PaymentService) CheckStatus(ctx context.Context, paymentID string) (*domain.PaymentStatusResult, error) {
	const op = "payment.status"

	if paymentID == "" {
		return nil, domain.NewValidationError(op, "payment_id", "is required")
	}

	start := time.Now()
	payment, err := s.provider.GetPayment(ctx, paymentID)
	telemetry.Business.ObserveGateway("get_payment", start, err)
	if err != nil {
		return nil, gatewayError(err, op)
	}

	return &domain.PaymentStatusResult{
		Success:   true,
		Status:    payment.Status,
		Paid:      payment.Paid,
		Amount:    payment.Amount,
		CreatedAt: payment.CreatedAt,
	}, nil
}

// Refund returns money for a payment. The matching order is canceled only
// after the gateway accepts the refund.
func (s *PaymentService) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	const op = "payment.refund"

	if err := s.validate.Struct(op, req); err != nil {
		return nil, err
	}
	if req.Amount != nil && !req.Amount.IsPositive() {
		return nil, domain.NewValidationError(op, "amount", "must be greater than 0")
	}

	key := req.IdempotencyKey
	if key == "" {
		key = billing.NewIdempotencyKey()
	}

	ctx, finish := telemetry.StartSpan(ctx, "payment.refund", req.PaymentID)
	defer finish()

	start := time.Now()
	refund, err := s.provider.CreateRefund(ctx, billing.RefundParams{
		PaymentID:      req.PaymentID,
		Amount:         req.Amount,
		IdempotencyKey: key,
	})
	telemetry.Business.ObserveGateway("create_refund", start, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "gateway refund failed", "error", err, "payment_id", req.PaymentID)
		return nil, gatewayError(err, op)
	}

	telemetry.Business.RecordRefund(refund.Status, refund.Amount.InexactFloat64())
	s.logger.InfoContext(ctx, "refund created",
		"payment_id", req.PaymentID,
		"refund_id", refund.ID,
		"status", refund.Status,
		"amount", refund.Amount.StringFixed(2),
	)

	// The money has moved, so a failed order update must not fail the call.
	// The refund.succeeded notification cancels the order later.
	if refund.Status != billing.RefundStatusCanceled {
		if err := s.cancelRefundedOrder(ctx, req.PaymentID); err != nil {
			s.logger.ErrorContext(ctx, "failed to cancel refunded order", "error", err, "payment_id", req.PaymentID)
			telemetry.CaptureErrorFromContext(ctx, err, map[string]interface{}{"payment_id": req.PaymentID})
		}
	}

	createdAt := refund.CreatedAt
	return &domain.RefundResult{
		Success:   true,
		RefundID:  refund.ID,
		Status:    refund.Status,
		Amount:    refund.Amount,
		CreatedAt: &createdAt,
	}, nil
}

func (s *PaymentService) cancelRefundedOrder(ctx context.Context, paymentID string) error {
	order, err := s.store.GetByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.WarnContext(ctx, "refunded payment has no matching order", "payment_id", paymentID)
			return nil
		}
		return err
	}

	updated, err := s.store.SetStatus(ctx, order.ID, domain.OrderStatusCanceled)
	if err != nil {
		return err
	}
	if order.Status != updated.Status {
		telemetry.Business.RecordStatusChange("refund", string(updated.Status))
		publishOrderEvent(ctx, s.publisher, s.logger, events.TypeOrderCanceled, "refund", updated)
	}
	return nil
}

// GetRefund proxies the gateway's view of a refund.
func (s *PaymentService) GetRefund(ctx context.Context, refundID string) (*domain.RefundResult, error) {
	const op = "payment.refund_status"

	if refundID == "" {
		return nil, domain.NewValidationError(op, "refund_id", "is required")
	}

	start := time.Now()
	refund, err := s.provider.GetRefund(ctx, refundID)
	telemetry.Business.ObserveGateway("get_refund", start, err)
	if err != nil {
		return nil, gatewayError(err, op)
	}

	createdAt := refund.CreatedAt
	return &domain.RefundResult{
		Success:   true,
		RefundID:  refund.ID,
		Status:    refund.Status,
		Amount:    refund.Amount,
		CreatedAt: &createdAt,
	}, nil
}
