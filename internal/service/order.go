package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/events"
	"github.com/dukerupert/airshop/internal/telemetry"
	"github.com/shopspring/decimal"
)

const (
	orderNumberPrefix   = "ORD"
	orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	orderNumberSuffix   = 6

	// generated numbers are retried on collision; client numbers are not
	orderNumberAttempts = 3
)

// OrderService implements domain.OrderService.
type OrderService struct {
	store     domain.OrderStore
	catalog   domain.Catalog
	shipping  ShippingPolicy
	publisher events.Publisher
	validate  *Validator
	logger    *slog.Logger
	now       func() time.Time
}

var _ domain.OrderService = (*OrderService)(nil)

// NewOrderService creates an order service. A nil publisher discards events.
func NewOrderService(store domain.OrderStore, catalog domain.Catalog, shipping ShippingPolicy, publisher events.Publisher, logger *slog.Logger) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		store:     store,
		catalog:   catalog,
		shipping:  shipping,
		publisher: publisher,
		validate:  NewValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder prices every line from the catalog, never from the request,
// and persists the order with its item snapshots in one write.
func (s *OrderService) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	const op = "order.create"

	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := s.validate.Struct(op, req); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, line := range req.Items {
		product, err := s.catalog.FindProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, domain.NotFound(op, "product", strconv.FormatInt(line.ProductID, 10))
			}
			return nil, err
		}
		if !product.IsVisible {
			return nil, domain.NotFound(op, "product", strconv.FormatInt(line.ProductID, 10))
		}

		item := domain.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     line.Quantity,
		}
		subtotal = subtotal.Add(item.Total())
		items = append(items, item)
	}

	shippingCost := s.shipping.Cost(subtotal)
	order := &domain.Order{
		OrderNumber:   req.OrderNumber,
		Customer:      req.Customer,
		Delivery:      req.Delivery,
		Comment:       req.Comment,
		Subtotal:      subtotal,
		ShippingCost:  shippingCost,
		TotalAmount:   subtotal.Add(shippingCost),
		PaymentMethod: req.PaymentMethod,
		Status:        req.PaymentMethod.InitialStatus(),
		Items:         items,
	}

	created, err := s.persist(ctx, order)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", created.ID,
		"order_number", created.OrderNumber,
		"status", created.Status,
		"total", created.TotalAmount.StringFixed(2),
		"lines", len(created.Items),
	)
	telemetry.Business.RecordOrderCreated(string(created.PaymentMethod), created.TotalAmount.InexactFloat64(), len(created.Items))
	s.publish(ctx, events.TypeOrderCreated, "storefront", created)

	return created, nil
}

func (s *OrderService) persist(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.OrderNumber != "" {
		return s.store.Create(ctx, order)
	}

	for attempt := 1; ; attempt++ {
		number, err := s.generateOrderNumber()
		if err != nil {
			return nil, domain.Internal(err, "order.create", "failed to generate order number")
		}
		order.OrderNumber = number

		created, err := s.store.Create(ctx, order)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrDuplicateOrderNumber) || attempt == orderNumberAttempts {
			return nil, err
		}
		s.logger.WarnContext(ctx, "generated order number collided, retrying", "order_number", number, "attempt", attempt)
	}
}

// generateOrderNumber returns ORD-YYYYMMDD-XXXXXX with a random suffix.
func (s *OrderService) generateOrderNumber() (string, error) {
	suffix := make([]byte, orderNumberSuffix)
	base := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, s.now().UTC().Format("20060102"), suffix), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.store.Get(ctx, id)
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	if orderNumber == "" {
		return nil, domain.ErrOrderNotFound
	}
	return s.store.GetByNumber(ctx, orderNumber)
}

func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	const op = "order.list"

	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}
	if filter.Offset < 0 {
		return nil, domain.NewValidationError(op, "offset", "must be at least 0")
	}
	return s.store.List(ctx, filter)
}

// UpdateStatus assigns status as an admin override. Canceled and delivered
// orders are closed: only a repeat of their current status is accepted.
// The store enforces that in the write itself.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidOrderStatus
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.SetOpenStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if current.Status != updated.Status {
		s.logger.InfoContext(ctx, "order status changed",
			"order_id", id,
			"from", current.Status,
			"to", updated.Status,
			"source", "admin",
		)
		telemetry.Business.RecordStatusChange("admin", string(updated.Status))
		s.publish(ctx, events.TypeForStatus(string(updated.Status)), "admin", updated)
	}
	return updated, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "order deleted", "order_id", id)
	return nil
}

func (s *OrderService) GetStats(ctx context.Context) (*domain.OrderStats, error) {
	return s.store.Stats(ctx)
}

// publish hands the event to the broker. Failures are logged and dropped;
// the order write has already committed.
func (s *OrderService) publish(ctx context.Context, eventType, source string, order *domain.Order) {
	publishOrderEvent(ctx, s.publisher, s.logger, eventType, source, order)
}

func publishOrderEvent(ctx context.Context, publisher events.Publisher, logger *slog.Logger, eventType, source string, order *domain.Order) {
	event := events.NewEvent(eventType)
	event.OrderID = order.ID
	event.OrderNumber = order.OrderNumber
	event.Status = string(order.Status)
	event.TotalAmount = order.TotalAmount
	event.Source = source
	if order.PaymentID != nil {
		event.PaymentID = *order.PaymentID
	}

	if err := publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.WarnContext(ctx, "failed to publish order event",
			"error", err,
			"type", eventType,
			"order_id", order.ID,
		)
	}
}
