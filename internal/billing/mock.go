package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockProvider is a mock billing provider for testing and local runs.
// Simulates successful payment flows without calling the gateway.
type MockProvider struct {
	// CreatePaymentFunc allows customizing payment creation behavior
	CreatePaymentFunc func(ctx context.Context, params CreatePaymentParams) (*Payment, error)

	// GetPaymentFunc allows customizing payment retrieval behavior
	GetPaymentFunc func(ctx context.Context, paymentID string) (*Payment, error)

	// CreateRefundFunc allows customizing refund creation behavior
	CreateRefundFunc func(ctx context.Context, params RefundParams) (*Refund, error)

	// GetRefundFunc allows customizing refund retrieval behavior
	GetRefundFunc func(ctx context.Context, refundID string) (*Refund, error)

	// Payments stores created payments keyed by id
	Payments map[string]*Payment

	// Refunds stores created refunds keyed by id
	Refunds map[string]*Refund

	// Keys records the idempotency key of every create call, in order
	Keys []string

	// CallLog tracks method calls for test assertions
	CallLog []string

	mu        sync.Mutex
	byKey     map[string]string
	returnURL string
}

// Compile-time check that MockProvider implements Provider.
var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Payments:  make(map[string]*Payment),
		Refunds:   make(map[string]*Refund),
		Keys:      []string{},
		CallLog:   []string{},
		byKey:     make(map[string]string),
		returnURL: "https://yoomoney.ru/checkout/payments/v2/contract",
	}
}

// CreatePayment creates a mock payment. Repeating an idempotency key returns
// the payment created with it, as the real gateway does.
func (m *MockProvider) CreatePayment(ctx context.Context, params CreatePaymentParams) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallLog = append(m.CallLog, fmt.Sprintf("CreatePayment(%s, %s)", params.OrderNumber, params.Amount.StringFixed(2)))
	m.Keys = append(m.Keys, params.IdempotencyKey)

	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, params)
	}

	if id, ok := m.byKey[params.IdempotencyKey]; ok && params.IdempotencyKey != "" {
		return m.Payments[id], nil
	}

	id := uuid.New().String()
	payment := &Payment{
		ID:              id,
		Status:          PaymentStatusPending,
		Amount:          params.Amount,
		Currency:        "RUB",
		ConfirmationURL: m.returnURL + "?orderId=" + id,
		CreatedAt:       time.Now(),
	}
	m.Payments[id] = payment
	m.byKey[params.IdempotencyKey] = id
	return payment, nil
}

// GetPayment retrieves a mock payment.
func (m *MockProvider) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallLog = append(m.CallLog, fmt.Sprintf("GetPayment(%s)", paymentID))

	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, paymentID)
	}

	payment, exists := m.Payments[paymentID]
	if !exists {
		return nil, &GatewayError{Kind: KindRejected, Op: "payments.get", Code: "not_found", Message: ErrPaymentNotFound.Error(), StatusCode: 404, Err: ErrPaymentNotFound}
	}
	return payment, nil
}

// CreateRefund refunds a stored mock payment.
func (m *MockProvider) CreateRefund(ctx context.Context, params RefundParams) (*Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateRefund(%s)", params.PaymentID))
	m.Keys = append(m.Keys, params.IdempotencyKey)

	if m.CreateRefundFunc != nil {
		return m.CreateRefundFunc(ctx, params)
	}

	payment, exists := m.Payments[params.PaymentID]
	if !exists {
		return nil, &GatewayError{Kind: KindRejected, Op: "refunds.create", Code: "not_found", Message: ErrPaymentNotFound.Error(), StatusCode: 404, Err: ErrPaymentNotFound}
	}

	amount := payment.Amount
	if params.Amount != nil {
		amount = *params.Amount
	}
	refund := &Refund{
		ID:        uuid.New().String(),
		PaymentID: params.PaymentID,
		Status:    RefundStatusSucceeded,
		Amount:    amount,
		CreatedAt: time.Now(),
	}
	m.Refunds[refund.ID] = refund
	return refund, nil
}

// GetRefund retrieves a mock refund.
func (m *MockProvider) GetRefund(ctx context.Context, refundID string) (*Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallLog = append(m.CallLog, fmt.Sprintf("GetRefund(%s)", refundID))

	if m.GetRefundFunc != nil {
		return m.GetRefundFunc(ctx, refundID)
	}

	refund, exists := m.Refunds[refundID]
	if !exists {
		return nil, &GatewayError{Kind: KindRejected, Op: "refunds.get", Code: "not_found", Message: ErrRefundNotFound.Error(), StatusCode: 404, Err: ErrRefundNotFound}
	}
	return refund, nil
}

// MarkSucceeded flips a stored mock payment to succeeded, as if the customer paid.
func (m *MockProvider) MarkSucceeded(paymentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.Payments[paymentID]; ok {
		p.Status = PaymentStatusSucceeded
		p.Paid = true
	}
}
