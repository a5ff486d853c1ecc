package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Order-related domain errors.
var (
	ErrOrderNotFound        = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrDuplicateOrderNumber = &Error{Code: ECONFLICT, Message: "Order number already exists"}
	ErrPaymentLocked        = &Error{Code: ECONFLICT, Message: "Order is already paid or closed"}
	ErrEmptyCart            = &Error{Code: EINVALID, Message: "Order must contain at least one item"}
	ErrInvalidOrderStatus   = &Error{Code: EINVALID, Message: "Invalid order status"}
	ErrOrderClosed          = &Error{Code: ECONFLICT, Message: "Order is closed and its status cannot change"}
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipping        OrderStatus = "shipping"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCanceled        OrderStatus = "canceled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAwaitingPayment,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

// RevenueStatuses are the statuses whose totals count as collected revenue.
var RevenueStatuses = []OrderStatus{
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusShipping,
	OrderStatusDelivered,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCanceled || s == OrderStatusDelivered
}

// IsPaidOrLater reports whether the order has been paid, possibly already fulfilled.
func (s OrderStatus) IsPaidOrLater() bool {
	for _, v := range RevenueStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if !s.Valid() {
		return "", ErrInvalidOrderStatus
	}
	return s, nil
}

// PaymentMethod is how the customer intends to pay.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodSBP  PaymentMethod = "sbp"
	PaymentMethodCash PaymentMethod = "cash"
)

// InitialStatus returns the status a new order starts in.
// Cash orders wait for manual processing; everything else waits for the gateway.
func (m PaymentMethod) InitialStatus() OrderStatus {
	if m == PaymentMethodCash {
		return OrderStatusPending
	}
	return OrderStatusAwaitingPayment
}

// Customer holds contact details captured at checkout.
type Customer struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Email    string  `json:"email" validate:"required,email,max=200"`
	Phone    string  `json:"phone" validate:"required,max=50"`
	Telegram *string `json:"telegram" validate:"omitempty,max=100"`
}

// Delivery is the shipping destination.
type Delivery struct {
	Address string `json:"address" validate:"required,max=500"`
	City    string `json:"city" validate:"required,max=100"`
	Zipcode string `json:"zipcode" validate:"required,max=20"`
}

// Order is a customer order with its snapshot line items.
// TotalAmount always equals Subtotal + ShippingCost.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Customer        Customer        `json:"customer"`
	Delivery        Delivery        `json:"delivery"`
	Comment         *string         `json:"comment"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentID       *string         `json:"paymentId"`
	PaymentAttempts int32           `json:"-"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem is an immutable snapshot of a product at order time.
type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"-"`
	ProductID    int64           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Quantity     int32           `json:"quantity"`
}

// Total is the line total: price times quantity.
func (i OrderItem) Total() decimal.Decimal {
	return i.ProductPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// MarshalJSON includes the computed line total.
func (i OrderItem) MarshalJSON() ([]byte, error) {
	type item OrderItem
	return json.Marshal(struct {
		item
		Total decimal.Decimal `json:"total"`
	}{item(i), i.Total()})
}

// PublicOrder is the order view exposed to anonymous callers. It omits
// customer contact details and the delivery address.
type PublicOrder struct {
	OrderNumber string          `json:"orderNumber"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
	Items       []OrderItem     `json:"items"`
}

// Public returns the anonymous view of the order.
func (o *Order) Public() PublicOrder {
	return PublicOrder{
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       o.Items,
	}
}

// Per-order limits. They keep line and order totals inside the NUMERIC(12,2)
// columns.
const (
	MaxLineQuantity = 100
	MaxOrderLines   = 50
)

// CartItem is one requested line of an order.
type CartItem struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int32 `json:"quantity" validate:"min=1,max=100"`
}

// CreateOrderRequest is the cart submitted by the storefront.
// Prices are never taken from the request.
type CreateOrderRequest struct {
	OrderNumber   string        `json:"orderNumber" validate:"omitempty,max=100"`
	Customer      Customer      `json:"customer"`
	Delivery      Delivery      `json:"delivery"`
	Comment       *string       `json:"comment" validate:"omitempty,max=2000"`
	Items         []CartItem    `json:"items" validate:"max=50,dive"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=card sbp cash"`
}

// OrderFilter narrows an order listing. Limit <= 0 means no limit.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int32
	Offset int32
}

// OrderPage is one page of orders plus the total matching the filter.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
}

// OrderStats aggregates order counts per status and collected revenue.
type OrderStats struct {
	Total           int64           `json:"total"`
	Pending         int64           `json:"pending"`
	AwaitingPayment int64           `json:"awaiting_payment"`
	Paid            int64           `json:"paid"`
	Processing      int64           `json:"processing"`
	Shipping        int64           `json:"shipping"`
	Delivered       int64           `json:"delivered"`
	Canceled        int64           `json:"canceled"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

//go:generate mockgen -source=order.go -destination=mock_order_store.go -package=domain -exclude_interfaces=OrderService

// OrderStore persists orders and their items.
type OrderStore interface {
	// Create inserts the order header and all items in one transaction.
	// Returns ErrDuplicateOrderNumber when the order number is taken.
	Create(ctx context.Context, order *Order) (*Order, error)

	Get(ctx context.Context, id int64) (*Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*Order, error)

	// List returns a page ordered newest first and the total count for the filter.
	List(ctx context.Context, filter OrderFilter) (*OrderPage, error)

	// SetStatus assigns a status unconditionally and bumps updated_at.
	SetStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)

	// SetOpenStatus assigns a status unless the order is canceled or
	// delivered under a different status, checked in the same statement.
	// Returns ErrOrderClosed for a closed order.
	SetOpenStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)

	// TransitionByPaymentID moves the order holding paymentID to status "to"
	// only if its current status is one of "from". The check and the write
	// are a single statement. applied is false when the order was left as is.
	TransitionByPaymentID(ctx context.Context, paymentID string, to OrderStatus, from []OrderStatus) (order *Order, applied bool, err error)

	// AttachPayment records a created gateway payment on the order, moves it
	// to awaiting_payment and advances the attempt counter. Returns
	// ErrPaymentLocked if the order is paid, fulfilled or canceled.
	AttachPayment(ctx context.Context, id int64, paymentID string) (*Order, error)

	// Delete removes the order and, by cascade, its items.
	Delete(ctx context.Context, id int64) error

	Stats(ctx context.Context) (*OrderStats, error)
}

// OrderService provides business logic for order operations.
type OrderService interface {
	// CreateOrder prices the cart from the catalog and persists the order.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)

	GetOrder(ctx context.Context, id int64) (*Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) (*OrderPage, error)

	// UpdateStatus is the admin override. Closed orders only accept their
	// current status.
	UpdateStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)

	DeleteOrder(ctx context.Context, id int64) error
	GetStats(ctx context.Context) (*OrderStats, error)
}
