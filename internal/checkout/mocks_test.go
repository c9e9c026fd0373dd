package checkout

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/cartstore"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
)

// MockCartStore keeps the serialized cart, like a real session would.
type MockCartStore struct {
	m          sync.RWMutex
	payload    []byte
	ResolveErr error
	PersistErr error
	Persists   int
}

func newMockCartStore(cart *domain.Cart) *MockCartStore {
	data, _ := cartstore.Encode(cart)
	return &MockCartStore{payload: data}
}

func (m *MockCartStore) Resolve(_ context.Context, _ string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.ResolveErr != nil {
		return nil, m.ResolveErr
	}
	return cartstore.Decode(m.payload)
}

func (m *MockCartStore) Persist(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.Persists++
	if m.PersistErr != nil {
		return m.PersistErr
	}
	data, err := cartstore.Encode(cart)
	if err != nil {
		return err
	}
	m.payload = data
	return nil
}

func (m *MockCartStore) stored() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	cart, _ := cartstore.Decode(m.payload)
	return cart
}

// MockOrderRepository records saved orders and assigns sequential IDs.
type MockOrderRepository struct {
	m      sync.Mutex
	Saved  []domain.Order
	Err    error
	nextID int64
}

func (m *MockOrderRepository) SaveOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.nextID++
	order.ID = m.nextID
	m.Saved = append(m.Saved, *order)
	return nil
}

type MockPublisher struct {
	m      sync.Mutex
	Events []events.OrderPlaced
	Err    error
	// Block makes a publish wait for its context, like a writer facing an unreachable broker.
	Block bool
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, event events.OrderPlaced) error {
	if m.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.m.Lock()
	defer m.m.Unlock()
	m.Events = append(m.Events, event)
	return m.Err
}
