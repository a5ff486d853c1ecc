package storefront

import (
	"context"
	"errors"

	"github.com/dukerupert/airshop/internal/domain"
)

// =============================================================================
// MOCK SERVICES
// =============================================================================

type mockOrderService struct {
	createOrderFunc      func(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	getOrderByNumberFunc func(ctx context.Context, orderNumber string) (*domain.Order, error)
}

var _ domain.OrderService = (*mockOrderService)(nil)

func (m *mockOrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if m.createOrderFunc != nil {
		return m.createOrderFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	if m.getOrderByNumberFunc != nil {
		return m.getOrderByNumberFunc(ctx, orderNumber)
	}
	return nil, domain.ErrOrderNotFound
}

func (m *mockOrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

func (m *mockOrderService) GetStats(ctx context.Context) (*domain.OrderStats, error) {
	return nil, errors.New("not implemented")
}

type mockProductService struct {
	listProductsFunc      func(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	getVisibleProductFunc func(ctx context.Context, id int64) (*domain.Product, error)
}

var _ domain.ProductService = (*mockProductService)(nil)

func (m *mockProductService) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return nil, errors.New("not implemented")
}

func (m *mockProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockProductService) GetVisibleProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if m.getVisibleProductFunc != nil {
		return m.getVisibleProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

type mockPaymentService struct {
	createPaymentFunc func(ctx context.Context, req domain.CreatePaymentRequest) (*domain.PaymentResult, error)
	checkStatusFunc   func(ctx context.Context, paymentID string) (*domain.PaymentStatusResult, error)
}

var _ domain.PaymentService = (*mockPaymentService)(nil)

func (m *mockPaymentService) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.PaymentResult, error) {
	if m.createPaymentFunc != nil {
		return m.createPaymentFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaymentService) CheckStatus(ctx context.Context, paymentID string) (*domain.PaymentStatusResult, error) {
	if m.checkStatusFunc != nil {
		return m.checkStatusFunc(ctx, paymentID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaymentService) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPaymentService) GetRefund(ctx context.Context, refundID string) (*domain.RefundResult, error) {
	return nil, errors.New("not implemented")
}
