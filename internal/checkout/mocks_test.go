package checkout

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/subhankar021/ShopHub/internal/auth"
	"github.com/subhankar021/ShopHub/internal/cart"
	"github.com/subhankar021/ShopHub/internal/order"
	"github.com/subhankar021/ShopHub/internal/profile"
)

// MockCartStore implements CartStore for testing
type MockCartStore struct {
	items   map[string][]cart.Item
	Cleared bool
}

func NewMockCartStore() *MockCartStore {
	return &MockCartStore{items: make(map[string][]cart.Item)}
}

func (m *MockCartStore) Add(sessionID string, item cart.Item) {
	m.items[sessionID] = append(m.items[sessionID], item)
}

func (m *MockCartStore) Items(sessionID string) []cart.Item {
	return m.items[sessionID]
}

func (m *MockCartStore) TotalPrice(sessionID string) float64 {
	total := 0.0
	for _, item := range m.items[sessionID] {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (m *MockCartStore) Clear(sessionID string) {
	delete(m.items, sessionID)
	m.Cleared = true
}

// MockIdentitySource implements IdentitySource for testing
type MockIdentitySource struct {
	identities    map[string]*auth.Identity
	MergedAddress string
}

func NewMockIdentitySource() *MockIdentitySource {
	return &MockIdentitySource{identities: make(map[string]*auth.Identity)}
}

func (m *MockIdentitySource) Identity(accessToken string) (*auth.Identity, bool) {
	identity, ok := m.identities[accessToken]
	return identity, ok
}

func (m *MockIdentitySource) MergeAddress(_, address string) {
	m.MergedAddress = address
}

// MockOrderRepository implements OrderRepository for testing
type MockOrderRepository struct {
	CreateErr error
	ItemsErr  error

	NextID        int64
	CreatedOrders int
	CreatedTotal  float64
	CreatedStatus order.Status
	CreatedItems  []order.Item
	Statuses      map[int64]order.Status
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{NextID: 1, Statuses: make(map[int64]order.Status)}
}

func (m *MockOrderRepository) Create(_ context.Context, _ string, status order.Status, total float64) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	id := m.NextID
	m.NextID++
	m.CreatedOrders++
	m.CreatedTotal = total
	m.CreatedStatus = status
	m.Statuses[id] = status
	return id, nil
}

func (m *MockOrderRepository) CreateItems(_ context.Context, items []order.Item) error {
	if m.ItemsErr != nil {
		return m.ItemsErr
	}
	m.CreatedItems = append(m.CreatedItems, items...)
	return nil
}

func (m *MockOrderRepository) SetStatus(_ context.Context, id int64, status order.Status) error {
	m.Statuses[id] = status
	return nil
}

// MockProfileRepository implements ProfileRepository for testing
type MockProfileRepository struct {
	UpdateErr     error
	UpdatedFields profile.Fields
}

func (m *MockProfileRepository) Update(_ context.Context, _ string, fields profile.Fields) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.UpdatedFields = fields
	return nil
}

// MockIdempotencyStore implements IdempotencyStore for testing
type MockIdempotencyStore struct {
	pending   map[string]bool
	completed map[string]int64
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		pending:   make(map[string]bool),
		completed: make(map[string]int64),
	}
}

func (m *MockIdempotencyStore) Reserve(_ context.Context, key string) (bool, error) {
	if m.pending[key] || m.completed[key] != 0 {
		return false, nil
	}
	m.pending[key] = true
	return true, nil
}

func (m *MockIdempotencyStore) Complete(_ context.Context, key string, orderID int64) error {
	delete(m.pending, key)
	m.completed[key] = orderID
	return nil
}

func (m *MockIdempotencyStore) Release(_ context.Context, key string) error {
	delete(m.pending, key)
	return nil
}

func (m *MockIdempotencyStore) OrderID(_ context.Context, key string) (int64, error) {
	return m.completed[key], nil
}

type testEnv struct {
	svc        *Service
	cart       *MockCartStore
	identities *MockIdentitySource
	orders     *MockOrderRepository
	profiles   *MockProfileRepository
	idem       *MockIdempotencyStore
}

// newTestService creates a fully wired Service for testing
func newTestService() *testEnv {
	env := &testEnv{
		cart:       NewMockCartStore(),
		identities: NewMockIdentitySource(),
		orders:     NewMockOrderRepository(),
		profiles:   &MockProfileRepository{},
		idem:       NewMockIdempotencyStore(),
	}
	env.svc = NewService(env.cart, env.identities, env.orders, env.profiles, env.idem, logrus.New())
	return env
}
