package admin

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

// =============================================================================
// MOCK SERVICES
// =============================================================================

type mockOrderService struct {
	getOrderFunc     func(ctx context.Context, id int64) (*domain.Order, error)
	listOrdersFunc   func(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
	updateStatusFunc func(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	deleteOrderFunc  func(ctx context.Context, id int64) error
	getStatsFunc     func(ctx context.Context) (*domain.OrderStats, error)
}

var _ domain.OrderService = (*mockOrderService)(nil)

func (m *mockOrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if m.getOrderFunc != nil {
		return m.getOrderFunc(ctx, id)
	}
	return nil, domain.ErrOrderNotFound
}

func (m *mockOrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	if m.listOrdersFunc != nil {
		return m.listOrdersFunc(ctx, filter)
	}
	return &domain.OrderPage{}, nil
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id int64) error {
	if m.deleteOrderFunc != nil {
		return m.deleteOrderFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockOrderService) GetStats(ctx context.Context) (*domain.OrderStats, error) {
	if m.getStatsFunc != nil {
		return m.getStatsFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

type mockPaymentService struct {
	refundFunc    func(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error)
	getRefundFunc func(ctx context.Context, refundID string) (*domain.RefundResult, error)
}

var _ domain.PaymentService = (*mockPaymentService)(nil)

func (m *mockPaymentService) CreatePayment(ctx context.Context, req domain.CreatePaymentRequest) (*domain.PaymentResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPaymentService) CheckStatus(ctx context.Context, paymentID string) (*domain.PaymentStatusResult, error) {
	return nil, errors.New("not implemented")
}

func (m *mockPaymentService) Refund(ctx context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
	if m.refundFunc != nil {
		return m.refundFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockPaymentService) GetRefund(ctx context.Context, refundID string) (*domain.RefundResult, error) {
	if m.getRefundFunc != nil {
		return m.getRefundFunc(ctx, refundID)
	}
	return nil, errors.New("not implemented")
}

type mockAdminService struct {
	loginFunc          func(ctx context.Context, username, password string) (*domain.LoginResult, error)
	verifyFunc         func(ctx context.Context, principal *domain.Principal) (*domain.AdminUser, error)
	registerFunc       func(ctx context.Context, principal *domain.Principal, req domain.RegisterAdminRequest) (*domain.AdminUser, error)
	changePasswordFunc func(ctx context.Context, principal *domain.Principal, req domain.ChangePasswordRequest) error
}

var _ domain.AdminService = (*mockAdminService)(nil)

func (m *mockAdminService) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, username, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *mockAdminService) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) Verify(ctx context.Context, principal *domain.Principal) (*domain.AdminUser, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, principal)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) Register(ctx context.Context, principal *domain.Principal, req domain.RegisterAdminRequest) (*domain.AdminUser, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, principal, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAdminService) ChangePassword(ctx context.Context, principal *domain.Principal, req domain.ChangePasswordRequest) error {
	if m.changePasswordFunc != nil {
		return m.changePasswordFunc(ctx, principal, req)
	}
	return errors.New("not implemented")
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func withPrincipal(req *http.Request, principal *domain.Principal) *http.Request {
	return req.WithContext(domain.NewContextWithPrincipal(req.Context(), principal))
}

var superadmin = &domain.Principal{UserID: 1, Username: "root", Role: domain.RoleSuperadmin}

// =============================================================================
// ORDERS
// =============================================================================

func TestOrderHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantFilter domain.OrderFilter
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK},
		{name: "paging", query: "?limit=20&offset=40", wantStatus: http.StatusOK, wantFilter: domain.OrderFilter{Limit: 20, Offset: 40}},
		{name: "bad limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "unknown status", query: "?status=lost", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.OrderFilter
			svc := &mockOrderService{
				listOrdersFunc: func(_ context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
					got = filter
					return &domain.OrderPage{Orders: []domain.Order{{ID: 1}}, Total: 41}, nil
				},
			}
			h := NewOrderHandler(svc)

			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, "/orders"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantFilter, got)
				body := decodeBody(t, rec)
				assert.Equal(t, float64(41), body["total"])
				assert.Len(t, body["orders"], 1)
			}
		})
	}
}

func TestOrderHandler_List_StatusFilter(t *testing.T) {
	var got domain.OrderFilter
	svc := &mockOrderService{
		listOrdersFunc: func(_ context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
			got = filter
			return &domain.OrderPage{}, nil
		},
	}
	h := NewOrderHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/orders?status=paid", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.OrderStatusPaid, *got.Status)
	assert.JSONEq(t, `{"orders":[],"total":0}`, rec.Body.String())
}

func TestOrderHandler_Get(t *testing.T) {
	svc := &mockOrderService{
		getOrderFunc: func(_ context.Context, id int64) (*domain.Order, error) {
			if id == 5 {
				return &domain.Order{ID: 5, OrderNumber: "ORD-5"}, nil
			}
			return nil, domain.ErrOrderNotFound
		},
	}
	h := NewOrderHandler(svc)

	for id, want := range map[string]int{"5": http.StatusOK, "6": http.StatusNotFound, "x": http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodGet, "/orders/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.Equal(t, want, rec.Code, "id %s", id)
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{"valid", `{"status":"shipping"}`, nil, http.StatusOK},
		{"missing status", `{}`, nil, http.StatusBadRequest},
		{"invalid enum", `{"status":"lost"}`, domain.ErrInvalidOrderStatus, http.StatusBadRequest},
		{"missing order", `{"status":"paid"}`, domain.ErrOrderNotFound, http.StatusNotFound},
		{"terminal order", `{"status":"paid"}`, domain.ErrOrderClosed, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotStatus domain.OrderStatus
			svc := &mockOrderService{
				updateStatusFunc: func(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
					gotStatus = status
					if tt.svcErr != nil {
						return nil, tt.svcErr
					}
					return &domain.Order{ID: id, Status: status}, nil
				},
			}
			h := NewOrderHandler(svc)

			req := httptest.NewRequest(http.MethodPut, "/orders/3/status", strings.NewReader(tt.body))
			req.SetPathValue("id", "3")
			rec := httptest.NewRecorder()
			h.UpdateStatus(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, domain.OrderStatusShipping, gotStatus)
				order := decodeBody(t, rec)["order"].(map[string]any)
				assert.Equal(t, "shipping", order["status"])
			}
		})
	}
}

func TestOrderHandler_Delete(t *testing.T) {
	deleted := int64(0)
	svc := &mockOrderService{
		deleteOrderFunc: func(_ context.Context, id int64) error {
			if id != 3 {
				return domain.ErrOrderNotFound
			}
			deleted = id
			return nil
		},
	}
	h := NewOrderHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/orders/3", nil)
	req.SetPathValue("id", "3")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), deleted)
	assert.Equal(t, "Order deleted successfully", decodeBody(t, rec)["message"])

	req = httptest.NewRequest(http.MethodDelete, "/orders/4", nil)
	req.SetPathValue("id", "4")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_Stats(t *testing.T) {
	svc := &mockOrderService{
		getStatsFunc: func(context.Context) (*domain.OrderStats, error) {
			return &domain.OrderStats{Total: 3, Paid: 2, Canceled: 1, TotalRevenue: decimal.RequireFromString("5400.50")}, nil
		},
	}
	h := NewOrderHandler(svc)

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/orders/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["paid"])
	assert.Contains(t, body, "awaiting_payment")
	assert.Contains(t, body, "total_revenue")
}

// =============================================================================
// REFUNDS
// =============================================================================

func TestRefundHandler_Create(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	var got domain.RefundRequest
	svc := &mockPaymentService{
		refundFunc: func(_ context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
			got = req
			return &domain.RefundResult{Success: true, RefundID: "rf_1", Status: "succeeded", Amount: decimal.RequireFromString("100.00"), CreatedAt: &created}, nil
		},
	}
	h := NewRefundHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/payment/refund", strings.NewReader(`{"payment_id":"pay_1","amount":100}`))
	req.Header.Set("Idempotency-Key", "refund-key")
	rec := httptest.NewRecorder()
	h.Create(rec, withPrincipal(req, superadmin))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pay_1", got.PaymentID)
	require.NotNil(t, got.Amount)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "refund-key", got.IdempotencyKey)

	body := decodeBody(t, rec)
	assert.Equal(t, "rf_1", body["refund_id"])
	assert.Equal(t, true, body["success"])
}

func TestRefundHandler_Create_FullRefund(t *testing.T) {
	var got domain.RefundRequest
	svc := &mockPaymentService{
		refundFunc: func(_ context.Context, req domain.RefundRequest) (*domain.RefundResult, error) {
			got = req
			return &domain.RefundResult{Success: true, RefundID: "rf_2", Status: "pending"}, nil
		},
	}
	h := NewRefundHandler(svc)

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/payment/refund", strings.NewReader(`{"payment_id":"pay_1"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Amount)
	assert.Empty(t, got.IdempotencyKey)
}

func TestRefundHandler_Create_GatewayFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing payment id", domain.NewValidationError("payment.refund", "payment_id", "is required"), http.StatusBadRequest},
		{"rejected", domain.Invalid("payment.refund", "Payment gateway: refund amount exceeds payment"), http.StatusBadRequest},
		{"unavailable", domain.Unavailable(errors.New("timeout"), "payment.refund", "Payment gateway unavailable"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPaymentService{
				refundFunc: func(context.Context, domain.RefundRequest) (*domain.RefundResult, error) {
					return nil, tt.err
				},
			}
			h := NewRefundHandler(svc)

			rec := httptest.NewRecorder()
			h.Create(rec, httptest.NewRequest(http.MethodPost, "/payment/refund", strings.NewReader(`{"payment_id":"pay_1"}`)))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRefundHandler_Get(t *testing.T) {
	svc := &mockPaymentService{
		getRefundFunc: func(_ context.Context, refundID string) (*domain.RefundResult, error) {
			return &domain.RefundResult{Success: true, RefundID: refundID, Status: "succeeded"}, nil
		},
	}
	h := NewRefundHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/payment/refund/rf_9", nil)
	req.SetPathValue("refundId", "rf_9")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rf_9", decodeBody(t, rec)["refund_id"])
}

// =============================================================================
// AUTH
// =============================================================================

func TestAuthHandler_Login(t *testing.T) {
	svc := &mockAdminService{
		loginFunc: func(_ context.Context, username, password string) (*domain.LoginResult, error) {
			switch {
			case username == "admin" && password == "secret-pass":
				return &domain.LoginResult{AccessToken: "jwt-token", User: &domain.AdminUser{ID: 1, Username: "admin", PasswordHash: "$2a$12$hash"}}, nil
			case username == "former":
				return nil, domain.ErrAccountDisabled
			default:
				return nil, domain.ErrInvalidCredentials
			}
		},
	}
	h := NewAuthHandler(svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"success", `{"username":"admin","password":"secret-pass"}`, http.StatusOK},
		{"bad password", `{"username":"admin","password":"nope"}`, http.StatusUnauthorized},
		{"disabled", `{"username":"former","password":"secret-pass"}`, http.StatusForbidden},
		{"no body", ``, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				body := decodeBody(t, rec)
				assert.Equal(t, "jwt-token", body["access_token"])
				assert.NotContains(t, rec.Body.String(), "$2a$12$hash")
			}
		})
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	svc := &mockAdminService{
		verifyFunc: func(_ context.Context, principal *domain.Principal) (*domain.AdminUser, error) {
			if principal == nil {
				return nil, domain.Unauthorized("admin.verify", "Authentication required")
			}
			return &domain.AdminUser{ID: principal.UserID, Username: principal.Username, Role: principal.Role}, nil
		},
	}
	h := NewAuthHandler(svc)

	rec := httptest.NewRecorder()
	h.Verify(rec, withPrincipal(httptest.NewRequest(http.MethodGet, "/auth/verify", nil), superadmin))

	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "root", user["username"])

	rec = httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/auth/verify", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Register(t *testing.T) {
	var gotPrincipal *domain.Principal
	svc := &mockAdminService{
		registerFunc: func(_ context.Context, principal *domain.Principal, req domain.RegisterAdminRequest) (*domain.AdminUser, error) {
			gotPrincipal = principal
			if req.Username == "taken" {
				return nil, domain.ErrDuplicateUsername
			}
			return &domain.AdminUser{ID: 9, Username: req.Username, Email: req.Email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"clerk","email":"clerk@airshop.test","password":"long-enough"}`))
	h.Register(rec, withPrincipal(req, superadmin))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, superadmin, gotPrincipal)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "clerk", user["username"])

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"taken","email":"t@airshop.test","password":"long-enough"}`))
	h.Register(rec, withPrincipal(req, superadmin))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	svc := &mockAdminService{
		changePasswordFunc: func(_ context.Context, _ *domain.Principal, req domain.ChangePasswordRequest) error {
			if req.OldPassword != "old-password" {
				return domain.Unauthorized("admin.change_password", "Invalid old password")
			}
			return nil
		},
	}
	h := NewAuthHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/change-password", strings.NewReader(`{"old_password":"old-password","new_password":"new-password"}`))
	h.ChangePassword(rec, withPrincipal(req, superadmin))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password changed successfully", decodeBody(t, rec)["message"])

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/change-password", strings.NewReader(`{"old_password":"wrong","new_password":"new-password"}`))
	h.ChangePassword(rec, withPrincipal(req, superadmin))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
