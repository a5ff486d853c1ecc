package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dukerupert/airshop/internal/domain"
	"github.com/dukerupert/airshop/internal/events"
)

// memOrderStore is an in-memory domain.OrderStore with the same
// uniqueness and transition rules as the Postgres store.
type memOrderStore struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*domain.Order

	// CreateFunc overrides Create when set
	CreateFunc func(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// SetStatusFunc overrides SetStatus when set
	SetStatusFunc func(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)

	calls []string
}

var _ domain.OrderStore = (*memOrderStore)(nil)

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[int64]*domain.Order)}
}

func (m *memOrderStore) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *memOrderStore) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Create")

	for _, o := range m.orders {
		if o.OrderNumber == order.OrderNumber {
			return nil, domain.ErrDuplicateOrderNumber
		}
	}

	m.nextID++
	stored := *order
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	stored.Items = make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		item.ID = int64(i + 1)
		item.OrderID = stored.ID
		stored.Items[i] = item
	}
	m.orders[stored.ID] = &stored
	return m.copyOf(&stored), nil
}

func (m *memOrderStore) Get(ctx context.Context, id int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return m.copyOf(o), nil
}

func (m *memOrderStore) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.OrderNumber == orderNumber {
			return m.copyOf(o), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *memOrderStore) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o := m.byPayment(paymentID); o != nil {
		return m.copyOf(o), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *memOrderStore) List(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	page := &domain.OrderPage{Orders: []domain.Order{}}
	for _, o := range m.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		page.Orders = append(page.Orders, *m.copyOf(o))
	}
	page.Total = int64(len(page.Orders))
	return page, nil
}

func (m *memOrderStore) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetStatus")

	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return m.copyOf(o), nil
}

func (m *memOrderStore) SetOpenStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SetOpenStatus")

	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status.IsTerminal() && o.Status != status {
		return nil, domain.ErrOrderClosed
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return m.copyOf(o), nil
}

func (m *memOrderStore) TransitionByPaymentID(ctx context.Context, paymentID string, to domain.OrderStatus, from []domain.OrderStatus) (*domain.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("TransitionByPaymentID")

	o := m.byPayment(paymentID)
	if o == nil {
		return nil, false, domain.ErrOrderNotFound
	}
	if !slices.Contains(from, o.Status) {
		return m.copyOf(o), false, nil
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return m.copyOf(o), true, nil
}

func (m *memOrderStore) AttachPayment(ctx context.Context, id int64, paymentID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AttachPayment")

	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status.IsPaidOrLater() || o.Status.IsTerminal() {
		return nil, domain.ErrPaymentLocked
	}
	o.PaymentID = &paymentID
	o.PaymentAttempts++
	o.Status = domain.OrderStatusAwaitingPayment
	return m.copyOf(o), nil
}

func (m *memOrderStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memOrderStore) Stats(ctx context.Context) (*domain.OrderStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &domain.OrderStats{Total: int64(len(m.orders))}, nil
}

func (m *memOrderStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

func (m *memOrderStore) byPayment(paymentID string) *domain.Order {
	for _, o := range m.orders {
		if o.PaymentID != nil && *o.PaymentID == paymentID {
			return o
		}
	}
	return nil
}

func (m *memOrderStore) copyOf(o *domain.Order) *domain.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}

// seed stores an order directly, bypassing Create.
func (m *memOrderStore) seed(o domain.Order) *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	o.ID = m.nextID
	m.orders[o.ID] = &o
	return m.copyOf(&o)
}

// mockCatalog resolves products from a map.
type mockCatalog struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	err      error
}

func (m *mockCatalog) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockCatalog) setPrice(id int64, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id].Price = mustDecimal(price)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// mockAdminStore implements domain.AdminUserStore over a slice.
type mockAdminStore struct {
	users []*domain.AdminUser

	GetByUsernameFunc func(ctx context.Context, username string) (*domain.AdminUser, error)

	touched  []int64
	password map[int64]string
}

func (m *mockAdminStore) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (m *mockAdminStore) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (m *mockAdminStore) Create(ctx context.Context, user domain.NewAdminUser) (*domain.AdminUser, error) {
	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, domain.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	created := &domain.AdminUser{
		ID:           int64(len(m.users) + 1),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	m.users = append(m.users, created)
	return created, nil
}

func (m *mockAdminStore) TouchLastLogin(ctx context.Context, id int64) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *mockAdminStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.password == nil {
		m.password = make(map[int64]string)
	}
	m.password[id] = passwordHash
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}
