package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderNumberConstraint = "orders_order_number_key"

// OrderStore implements domain.OrderStore using PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
	repo *repository.Queries
}

// Compile-time check that OrderStore implements domain.OrderStore.
var _ domain.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{
		pool: pool,
		repo: repository.New(pool),
	}
}

// =============================================================================
// WRITES
// =============================================================================

// Create inserts the order header and its items in a single transaction.
func (s *OrderStore) Create(ctx context.Context, order *domain.Order) (_ *domain.Order, err error) {
	const op = "order.create"

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	row, err := txRepo.CreateOrder(ctx, repository.CreateOrderParams{
		OrderNumber:      order.OrderNumber,
		CustomerName:     order.Customer.Name,
		CustomerEmail:    order.Customer.Email,
		CustomerPhone:    order.Customer.Phone,
		CustomerTelegram: pgTextFromPtr(order.Customer.Telegram),
		DeliveryAddress:  order.Delivery.Address,
		DeliveryCity:     order.Delivery.City,
		DeliveryZipcode:  order.Delivery.Zipcode,
		Comment:          pgTextFromPtr(order.Comment),
		Subtotal:         order.Subtotal,
		ShippingCost:     order.ShippingCost,
		TotalAmount:      order.TotalAmount,
		PaymentMethod:    string(order.PaymentMethod),
		Status:           string(order.Status),
	})
	if err != nil {
		if isUniqueViolation(err, orderNumberConstraint) {
			return nil, domain.ErrDuplicateOrderNumber
		}
		return nil, domain.Internal(err, op, "failed to create order")
	}

	items := make([]repository.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		itemRow, err := txRepo.CreateOrderItem(ctx, repository.CreateOrderItemParams{
			OrderID:      row.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, domain.NotFound(op, "product", fmt.Sprint(item.ProductID))
			}
			return nil, domain.Internal(err, op, "failed to create order item")
		}
		items = append(items, itemRow)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, op, "failed to commit transaction")
	}

	return mapRepoOrderToDomain(row, items), nil
}

// SetStatus assigns a status in a single UPDATE.
func (s *OrderStore) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	row, err := s.repo.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.set_status", "failed to update order status")
	}
	return s.withItems(ctx, row)
}

// SetOpenStatus assigns a status unless the order is closed. The closed
// check is part of the UPDATE, so a concurrent cancel is never overwritten.
func (s *OrderStore) SetOpenStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	const op = "order.set_open_status"

	row, err := s.repo.UpdateOpenOrderStatus(ctx, repository.UpdateOpenOrderStatusParams{
		ID:     id,
		Status: string(status),
	})
	if err == nil {
		return s.withItems(ctx, row)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, op, "failed to update order status")
	}

	if _, getErr := s.repo.GetOrder(ctx, id); getErr != nil {
		return nil, s.notFoundOr(getErr, op)
	}
	return nil, domain.ErrOrderClosed
}

// TransitionByPaymentID applies a conditional status change. When no row
// qualifies the current order is returned with applied=false.
func (s *OrderStore) TransitionByPaymentID(ctx context.Context, paymentID string, to domain.OrderStatus, from []domain.OrderStatus) (*domain.Order, bool, error) {
	fromStatuses := make([]string, len(from))
	for i, st := range from {
		fromStatuses[i] = string(st)
	}

	row, err := s.repo.TransitionOrderStatusByPaymentID(ctx, repository.TransitionOrderStatusByPaymentIDParams{
		ToStatus:     string(to),
		PaymentID:    pgText(paymentID),
		FromStatuses: fromStatuses,
	})
	if err == nil {
		order, err := s.withItems(ctx, row)
		if err != nil {
			return nil, false, err
		}
		return order, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, domain.Internal(err, "order.transition", "failed to transition order status")
	}

	current, err := s.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// AttachPayment stores the gateway payment reference on an open order.
func (s *OrderStore) AttachPayment(ctx context.Context, id int64, paymentID string) (*domain.Order, error) {
	const op = "order.attach_payment"

	row, err := s.repo.AttachOrderPayment(ctx, repository.AttachOrderPaymentParams{
		ID:        id,
		PaymentID: pgText(paymentID),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the order is gone or it is past the point of taking payments.
			if _, getErr := s.repo.GetOrder(ctx, id); getErr != nil {
				if errors.Is(getErr, pgx.ErrNoRows) {
					return nil, domain.ErrOrderNotFound
				}
				return nil, domain.Internal(getErr, op, "failed to get order")
			}
			return nil, domain.ErrPaymentLocked
		}
		if isUniqueViolation(err, "") {
			return nil, domain.Conflict(op, "payment is already attached to another order")
		}
		return nil, domain.Internal(err, op, "failed to attach payment")
	}
	return s.withItems(ctx, row)
}

// Delete removes an order. Items go with it by cascade.
func (s *OrderStore) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteOrder(ctx, id)
	if err != nil {
		return domain.Internal(err, "order.delete", "failed to delete order")
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// =============================================================================
// READS
// =============================================================================

func (s *OrderStore) Get(ctx context.Context, id int64) (*domain.Order, error) {
	row, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "order.get")
	}
	return s.withItems(ctx, row)
}

func (s *OrderStore) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	row, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, s.notFoundOr(err, "order.get_by_number")
	}
	return s.withItems(ctx, row)
}

func (s *OrderStore) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	row, err := s.repo.GetOrderByPaymentID(ctx, pgText(paymentID))
	if err != nil {
		return nil, s.notFoundOr(err, "order.get_by_payment_id")
	}
	return s.withItems(ctx, row)
}

// List returns a page of orders, newest first, with items loaded in one query.
func (s *OrderStore) List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	const op = "order.list"

	var status pgtype.Text
	if filter.Status != nil {
		status = pgText(string(*filter.Status))
	}
	var limit pgtype.Int4
	if filter.Limit > 0 {
		limit = pgtype.Int4{Int32: filter.Limit, Valid: true}
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.ListOrders(ctx, repository.ListOrdersParams{
		Status:    status,
		Limit:     limit,
		RowOffset: offset,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list orders")
	}

	total, err := s.repo.CountOrders(ctx, status)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count orders")
	}

	page := &domain.OrderPage{
		Orders: make([]domain.Order, 0, len(rows)),
		Total:  total,
	}
	if len(rows) == 0 {
		return page, nil
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	itemRows, err := s.repo.GetOrderItemsForOrders(ctx, ids)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}
	byOrder := make(map[int64][]repository.OrderItem, len(rows))
	for _, item := range itemRows {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for _, row := range rows {
		page.Orders = append(page.Orders, *mapRepoOrderToDomain(row, byOrder[row.ID]))
	}
	return page, nil
}

// Stats aggregates per-status counts and collected revenue.
func (s *OrderStore) Stats(ctx context.Context) (*domain.OrderStats, error) {
	row, err := s.repo.GetOrderStats(ctx)
	if err != nil {
		return nil, domain.Internal(err, "order.stats", "failed to get order stats")
	}
	return &domain.OrderStats{
		Total:           row.Total,
		Pending:         row.Pending,
		AwaitingPayment: row.AwaitingPayment,
		Paid:            row.Paid,
		Processing:      row.Processing,
		Shipping:        row.Shipping,
		Delivered:       row.Delivered,
		Canceled:        row.Canceled,
		TotalRevenue:    row.TotalRevenue,
	}, nil
}

// =============================================================================
// MAPPING HELPERS
// =============================================================================

func (s *OrderStore) withItems(ctx context.Context, row repository.Order) (*domain.Order, error) {
	items, err := s.repo.GetOrderItems(ctx, row.ID)
	if err != nil {
		return nil, domain.Internal(err, "order.items", "failed to load order items")
	}
	return mapRepoOrderToDomain(row, items), nil
}

func (s *OrderStore) notFoundOr(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrOrderNotFound
	}
	return domain.Internal(err, op, "failed to get order")
}

func mapRepoOrderToDomain(o repository.Order, items []repository.OrderItem) *domain.Order {
	order := &domain.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Customer: domain.Customer{
			Name:     o.CustomerName,
			Email:    o.CustomerEmail,
			Phone:    o.CustomerPhone,
			Telegram: ptrFromPgText(o.CustomerTelegram),
		},
		Delivery: domain.Delivery{
			Address: o.DeliveryAddress,
			City:    o.DeliveryCity,
			Zipcode: o.DeliveryZipcode,
		},
		Comment:         ptrFromPgText(o.Comment),
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   domain.PaymentMethod(o.PaymentMethod),
		PaymentID:       ptrFromPgText(o.PaymentID),
		PaymentAttempts: o.PaymentAttempts,
		Status:          domain.OrderStatus(o.Status),
		CreatedAt:       timeFromPg(o.CreatedAt),
		UpdatedAt:       timeFromPg(o.UpdatedAt),
		Items:           make([]domain.OrderItem, len(items)),
	}
	for i, item := range items {
		order.Items[i] = domain.OrderItem{
			ID:           item.ID,
			OrderID:      item.OrderID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		}
	}
	return order
}
