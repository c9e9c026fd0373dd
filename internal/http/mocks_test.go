package http

import (
	"context"
	"sort"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/shopspring/decimal"
)

type CatalogMock struct {
	products []*domain.Product
	inUse    map[int64]bool
	err      error
}

func newCatalogMock() *CatalogMock {
	return &CatalogMock{products: []*domain.Product{
		{ID: 1, Name: "Kayak", Price: decimal.RequireFromString("275"), Category: "Watersports"},
		{ID: 2, Name: "Lifejacket", Price: decimal.RequireFromString("48.95"), Category: "Watersports"},
		{ID: 3, Name: "Soccer Ball", Price: decimal.RequireFromString("19.50"), Category: "Soccer"},
		{ID: 4, Name: "Corner Flags", Price: decimal.RequireFromString("34.95"), Category: "Soccer"},
		{ID: 5, Name: "Stadium", Price: decimal.RequireFromString("79500"), Category: "Soccer"},
		{ID: 6, Name: "Thinking Cap", Price: decimal.RequireFromString("16"), Category: "Chess"},
	}}
}

func (m *CatalogMock) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *CatalogMock) filter(category string) []*domain.Product {
	var out []*domain.Product
	for _, p := range m.products {
		if category == "" || p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (m *CatalogMock) ListProducts(_ context.Context, category string, page, pageSize int) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	all := m.filter(category)
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, nil
	}
	end := min(start+pageSize, len(all))
	return all[start:end], nil
}

func (m *CatalogMock) CountProducts(_ context.Context, category string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return len(m.filter(category)), nil
}

func (m *CatalogMock) Categories(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range m.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *CatalogMock) AllProducts(context.Context) ([]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *CatalogMock) CreateProduct(_ context.Context, p *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	var maxID int64
	for _, existing := range m.products {
		maxID = max(maxID, existing.ID)
	}
	p.ID = maxID + 1
	cp := *p
	m.products = append(m.products, &cp)
	return nil
}

func (m *CatalogMock) UpdateProduct(_ context.Context, p *domain.Product) error {
	if m.err != nil {
		return m.err
	}
	for i, existing := range m.products {
		if existing.ID == p.ID {
			cp := *p
			m.products[i] = &cp
			return nil
		}
	}
	return repository.ErrProductNotFound
}

func (m *CatalogMock) DeleteProduct(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	if m.inUse[id] {
		return repository.ErrProductInUse
	}
	for i, existing := range m.products {
		if existing.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrProductNotFound
}

type CartStoreMock struct {
	cart       *domain.Cart
	resolveErr error
	persistErr error
}

func (m *CartStoreMock) Resolve(context.Context, string) (*domain.Cart, error) {
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	if m.cart == nil {
		return domain.NewCart(), nil
	}
	return m.cart, nil
}

func (m *CartStoreMock) Persist(_ context.Context, _ string, cart *domain.Cart) error {
	if m.persistErr != nil {
		return m.persistErr
	}
	m.cart = cart
	return nil
}

type CheckoutServiceMock struct {
	result *checkout.Result
	err    error
}

func (m CheckoutServiceMock) Checkout(context.Context, string, domain.Order) (*checkout.Result, error) {
	return m.result, m.err
}

type OrderRepositoryMock struct {
	mu        sync.RWMutex
	nextID    int64
	orders    map[int64]*domain.Order
	lastQuery repository.OrderQuery
	err       error
}

func newOrderRepositoryMock() *OrderRepositoryMock {
	return &OrderRepositoryMock{orders: map[int64]*domain.Order{}}
}

func (m *OrderRepositoryMock) SaveOrder(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	order.ID = m.nextID
	cp := *order
	m.orders[cp.ID] = &cp
	return nil
}

func (m *OrderRepositoryMock) Orders(_ context.Context, q repository.OrderQuery) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]int64, 0, len(m.orders))
	for id, o := range m.orders {
		if q.Shipped == nil || o.Shipped == *q.Shipped {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		cp := *m.orders[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *OrderRepositoryMock) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *OrderRepositoryMock) MarkShipped(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Shipped = true
	return nil
}
