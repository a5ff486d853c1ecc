package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func errorCode(t *testing.T, body map[string]any) string {
	t.Helper()

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %v", body)
	code, _ := errObj["code"].(string)
	return code
}

const orderBody = `{
	"customer": {"name": "Anna", "email": "anna@example.com", "phone": "+79990000000"},
	"delivery": {"address": "Lenina 1", "city": "Moscow", "zipcode": "101000"},
	"items": [{"productId": 1, "quantity": 2}],
	"paymentMethod": "card"
}`

func sampleOrder() *domain.Order {
	paymentID := "pay_1"
	return &domain.Order{
		ID:          10,
		OrderNumber: "ORD-20260101-ABCDEF",
		Customer:    domain.Customer{Name: "Anna", Email: "anna@example.com", Phone: "+79990000000"},
		Delivery:    domain.Delivery{Address: "Lenina 1", City: "Moscow", Zipcode: "101000"},
		Subtotal:    decimal.RequireFromString("2401.00"),
		TotalAmount: decimal.RequireFromString("2701.00"),
		PaymentID:   &paymentID,
		Status:      domain.OrderStatusAwaitingPayment,
		CreatedAt:   time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		Items: []domain.OrderItem{
			{ID: 1, ProductID: 1, ProductName: "Serum", ProductPrice: decimal.RequireFromString("1200.50"), Quantity: 2},
		},
	}
}

// =============================================================================
// ORDERS
// =============================================================================

func TestOrderHandler_Create(t *testing.T) {
	var got domain.CreateOrderRequest
	svc := &mockOrderService{
		createOrderFunc: func(_ context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
			got = req
			return sampleOrder(), nil
		},
	}
	h := NewOrderHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.PaymentMethodCard, got.PaymentMethod)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int32(2), got.Items[0].Quantity)

	body := decodeBody(t, rec)
	order, ok := body["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ORD-20260101-ABCDEF", order["orderNumber"])
}

func TestOrderHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"empty body", "", nil, http.StatusBadRequest, domain.EINVALID},
		{"malformed json", `{"items": [`, nil, http.StatusBadRequest, domain.EINVALID},
		{"empty cart", orderBody, domain.ErrEmptyCart, http.StatusBadRequest, domain.EINVALID},
		{"unknown product", orderBody, domain.NotFound("order.create", "product", "99"), http.StatusNotFound, domain.ENOTFOUND},
		{"duplicate number", orderBody, domain.ErrDuplicateOrderNumber, http.StatusConflict, domain.ECONFLICT},
		{"storage failure", orderBody, domain.Internal(errors.New("tx aborted"), "order.create", "failed to create order"), http.StatusInternalServerError, domain.EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockOrderService{
				createOrderFunc: func(context.Context, domain.CreateOrderRequest) (*domain.Order, error) {
					called = true
					return nil, tt.svcErr
				},
			}
			h := NewOrderHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, decodeBody(t, rec)))
			assert.Equal(t, tt.svcErr != nil, called)
		})
	}
}

func TestOrderHandler_Create_ValidationFields(t *testing.T) {
	svc := &mockOrderService{
		createOrderFunc: func(context.Context, domain.CreateOrderRequest) (*domain.Order, error) {
			return nil, domain.NewValidationError("order.create", "customer.email", "must be a valid email address")
		},
	}
	h := NewOrderHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errObj := decodeBody(t, rec)["error"].(map[string]any)
	fields := errObj["fields"].(map[string]any)
	assert.Equal(t, "must be a valid email address", fields["customer.email"])
}

func TestOrderHandler_GetByNumber_PublicView(t *testing.T) {
	svc := &mockOrderService{
		getOrderByNumberFunc: func(_ context.Context, number string) (*domain.Order, error) {
			if number != "ORD-20260101-ABCDEF" {
				return nil, domain.ErrOrderNotFound
			}
			return sampleOrder(), nil
		},
	}
	h := NewOrderHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/by-number/ORD-20260101-ABCDEF", nil)
	req.SetPathValue("number", "ORD-20260101-ABCDEF")
	rec := httptest.NewRecorder()
	h.GetByNumber(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody(t, rec)["order"].(map[string]any)

	assert.Equal(t, "ORD-20260101-ABCDEF", order["orderNumber"])
	assert.Equal(t, "awaiting_payment", order["status"])
	assert.Contains(t, order, "totalAmount")
	assert.Contains(t, order, "createdAt")
	assert.Contains(t, order, "items")
	for _, private := range []string{"customer", "delivery", "paymentId", "id", "comment"} {
		assert.NotContains(t, order, private)
	}
	assert.NotContains(t, rec.Body.String(), "anna@example.com")
}

func TestOrderHandler_GetByNumber_NotFound(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{})

	req := httptest.NewRequest(http.MethodGet, "/orders/by-number/ORD-X", nil)
	req.SetPathValue("number", "ORD-X")
	rec := httptest.NewRecorder()
	h.GetByNumber(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// PRODUCTS
// =============================================================================

func TestProductHandler_List_Filters(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantCategory *string
		wantFeatured bool
		wantSearch   *string
	}{
		{name: "no filters", query: ""},
		{name: "all category is ignored", query: "?category=all"},
		{name: "category", query: "?category=face", wantCategory: ptr("face")},
		{name: "featured", query: "?featured=true", wantFeatured: true},
		{name: "featured false", query: "?featured=false"},
		{name: "search", query: "?search=%20serum%20", wantSearch: ptr("serum")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.ProductFilter
			svc := &mockProductService{
				listProductsFunc: func(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
					got = filter
					return []domain.Product{{ID: 1, Name: "Serum"}}, nil
				},
			}
			h := NewProductHandler(svc)

			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, "/products"+tt.query, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantFeatured, got.Featured)
			assert.Equal(t, tt.wantSearch, got.Search)
			assert.Len(t, decodeBody(t, rec)["products"], 1)
		})
	}
}

func TestProductHandler_List_EmptyIsArray(t *testing.T) {
	h := NewProductHandler(&mockProductService{})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"products":[]}`, rec.Body.String())
}

func TestProductHandler_Get(t *testing.T) {
	svc := &mockProductService{
		getVisibleProductFunc: func(_ context.Context, id int64) (*domain.Product, error) {
			if id == 1 {
				return &domain.Product{ID: 1, Name: "Serum", IsVisible: true}, nil
			}
			return nil, domain.ErrProductNotFound
		},
	}
	h := NewProductHandler(svc)

	tests := []struct {
		id         string
		wantStatus int
	}{
		{"1", http.StatusOK},
		{"2", http.StatusNotFound},
		{"abc", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			rec := httptest.NewRecorder()
			h.Get(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// =============================================================================
// PAYMENTS
// =============================================================================

func TestPaymentHandler_Create(t *testing.T) {
	var got domain.CreatePaymentRequest
	svc := &mockPaymentService{
		createPaymentFunc: func(_ context.Context, req domain.CreatePaymentRequest) (*domain.PaymentResult, error) {
			got = req
			return &domain.PaymentResult{
				Success:         true,
				PaymentID:       "pay_1",
				ConfirmationURL: "https://yoomoney.ru/checkout/pay_1",
				Status:          "pending",
			}, nil
		},
	}
	h := NewPaymentHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/payment/create",
		strings.NewReader(`{"orderNumber":"ORD-1","amount":2701.00,"paymentMethod":"sbp"}`))
	req.Header.Set(IdempotencyKeyHeader, " client-key-1 ")
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-1", got.OrderNumber)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("2701")))
	assert.Equal(t, "client-key-1", got.IdempotencyKey)

	assert.JSONEq(t,
		`{"success":true,"payment_id":"pay_1","confirmation_url":"https://yoomoney.ru/checkout/pay_1","status":"pending"}`,
		rec.Body.String())
}

func TestPaymentHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"order missing", domain.ErrOrderNotFound, http.StatusNotFound},
		{"already paid", domain.ErrPaymentLocked, http.StatusConflict},
		{"gateway rejected", domain.Invalid("payment.create", "Payment gateway: invalid amount"), http.StatusBadRequest},
		{"gateway unavailable", domain.Unavailable(errors.New("timeout"), "payment.create", "Payment gateway unavailable"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPaymentService{
				createPaymentFunc: func(context.Context, domain.CreatePaymentRequest) (*domain.PaymentResult, error) {
					return nil, tt.err
				},
			}
			h := NewPaymentHandler(svc)

			req := httptest.NewRequest(http.MethodPost, "/payment/create", strings.NewReader(`{"orderNumber":"ORD-1","amount":10}`))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPaymentHandler_Status(t *testing.T) {
	svc := &mockPaymentService{
		checkStatusFunc: func(_ context.Context, paymentID string) (*domain.PaymentStatusResult, error) {
			assert.Equal(t, "pay_1", paymentID)
			return &domain.PaymentStatusResult{Success: true, Status: "succeeded", Paid: true, Amount: decimal.RequireFromString("2701.00")}, nil
		},
	}
	h := NewPaymentHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/payment/status/pay_1", nil)
	req.SetPathValue("paymentId", "pay_1")
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "succeeded", body["status"])
	assert.Equal(t, true, body["paid"])
}

func ptr(s string) *string { return &s }
