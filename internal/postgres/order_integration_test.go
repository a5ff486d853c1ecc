//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/airshop/internal"
	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/repository"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore migrates TEST_DATABASE_URL and returns a store over a clean schema.
func setupStore(t *testing.T) (*OrderStore, *repository.Queries) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, internal.RunMigrations(db))

	_, err = db.Exec("TRUNCATE order_items, orders, products RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return NewOrderStore(pool), repository.New(pool)
}

func seedProduct(t *testing.T, repo *repository.Queries, name, price string) repository.Product {
	t.Helper()
	p, err := repo.CreateProduct(context.Background(), repository.CreateProductParams{
		Name:      name,
		Brand:     "Test",
		Price:     decimal.RequireFromString(price),
		Volume:    "50ml",
		Category:  "unisex",
		Image:     "/img/test.jpg",
		IsVisible: true,
	})
	require.NoError(t, err)
	return p
}

func newTestOrder(number string, productID int64) *domain.Order {
	price := decimal.RequireFromString("1200.00")
	return &domain.Order{
		OrderNumber: number,
		Customer: domain.Customer{
			Name:  "Anna Petrova",
			Email: "anna@example.com",
			Phone: "+79990000000",
		},
		Delivery: domain.Delivery{
			Address: "Lenina 1",
			City:    "Moscow",
			Zipcode: "101000",
		},
		Subtotal:      price.Mul(decimal.NewFromInt(2)),
		ShippingCost:  decimal.NewFromInt(300),
		TotalAmount:   price.Mul(decimal.NewFromInt(2)).Add(decimal.NewFromInt(300)),
		PaymentMethod: domain.PaymentMethodCard,
		Status:        domain.OrderStatusAwaitingPayment,
		Items: []domain.OrderItem{
			{ProductID: productID, ProductName: "Amber Oud", ProductPrice: price, Quantity: 2},
		},
	}
}

func TestOrderStore_ConcurrentDuplicateNumber(t *testing.T) {
	store, repo := setupStore(t)
	product := seedProduct(t, repo, "Amber Oud", "1200.00")

	const racers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create(context.Background(), newTestOrder("ORD-RACE", product.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case domain.ErrorCode(err) == domain.ECONFLICT:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, racers-1, conflicts)

	page, err := store.List(context.Background(), domain.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Orders[0].Items, 1)
}

func TestOrderStore_CreateRollsBackOnBadItem(t *testing.T) {
	store, repo := setupStore(t)
	product := seedProduct(t, repo, "Amber Oud", "1200.00")

	order := newTestOrder("ORD-ATOMIC", product.ID)
	order.Items = append(order.Items, domain.OrderItem{
		ProductID: product.ID + 1000, ProductName: "ghost", ProductPrice: decimal.NewFromInt(1), Quantity: 1,
	})

	_, err := store.Create(context.Background(), order)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	_, err = store.GetByNumber(context.Background(), "ORD-ATOMIC")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderStore_PaymentLifecycle(t *testing.T) {
	store, repo := setupStore(t)
	product := seedProduct(t, repo, "Amber Oud", "1200.00")
	ctx := context.Background()

	created, err := store.Create(ctx, newTestOrder("ORD-PAY", product.ID))
	require.NoError(t, err)
	assert.Equal(t, int32(0), created.PaymentAttempts)

	attached, err := store.AttachPayment(ctx, created.ID, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), attached.PaymentAttempts)
	require.NotNil(t, attached.PaymentID)
	assert.Equal(t, "pay_1", *attached.PaymentID)

	open := []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusAwaitingPayment, domain.OrderStatusPaid}

	paid, applied, err := store.TransitionByPaymentID(ctx, "pay_1", domain.OrderStatusPaid, open)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)

	_, err = store.AttachPayment(ctx, created.ID, "pay_2")
	assert.ErrorIs(t, err, domain.ErrPaymentLocked)

	_, err = store.SetStatus(ctx, created.ID, domain.OrderStatusShipping)
	require.NoError(t, err)

	// A late duplicate success must not pull a shipped order back to paid.
	current, applied, err := store.TransitionByPaymentID(ctx, "pay_1", domain.OrderStatusPaid, open)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, domain.OrderStatusShipping, current.Status)

	_, _, err = store.TransitionByPaymentID(ctx, "pay_unknown", domain.OrderStatusPaid, open)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderStore_SetOpenStatus(t *testing.T) {
	store, repo := setupStore(t)
	product := seedProduct(t, repo, "Amber Oud", "1200.00")
	ctx := context.Background()

	created, err := store.Create(ctx, newTestOrder("ORD-OPEN-1", product.ID))
	require.NoError(t, err)

	processing, err := store.SetOpenStatus(ctx, created.ID, domain.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, processing.Status)
	assert.Len(t, processing.Items, 1)

	_, err = store.SetStatus(ctx, created.ID, domain.OrderStatusCanceled)
	require.NoError(t, err)

	_, err = store.SetOpenStatus(ctx, created.ID, domain.OrderStatusShipping)
	assert.ErrorIs(t, err, domain.ErrOrderClosed)

	again, err := store.SetOpenStatus(ctx, created.ID, domain.OrderStatusCanceled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCanceled, again.Status)

	_, err = store.SetOpenStatus(ctx, 999999, domain.OrderStatusPaid)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderStore_ListStatsDelete(t *testing.T) {
	store, repo := setupStore(t)
	product := seedProduct(t, repo, "Amber Oud", "1200.00")
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		o, err := store.Create(ctx, newTestOrder(fmt.Sprintf("ORD-LIST-%d", i), product.ID))
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := store.SetStatus(ctx, ids[0], domain.OrderStatusPaid)
	require.NoError(t, err)

	page, err := store.List(ctx, domain.OrderFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, ids[2], page.Orders[0].ID, "newest first")

	paid := domain.OrderStatusPaid
	page, err = store.List(ctx, domain.OrderFilter{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Paid)
	assert.Equal(t, int64(2), stats.AwaitingPayment)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("2700.00")))

	require.NoError(t, store.Delete(ctx, ids[1]))
	items, err := repo.GetOrderItems(ctx, ids[1])
	require.NoError(t, err)
	assert.Empty(t, items, "items are removed with the order")
	assert.ErrorIs(t, store.Delete(ctx, ids[1]), domain.ErrOrderNotFound)
}
