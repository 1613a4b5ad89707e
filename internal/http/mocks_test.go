package http

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/subhankar021/ShopHub/internal/auth"
	"github.com/subhankar021/ShopHub/internal/catalog"
	"github.com/subhankar021/ShopHub/internal/checkout"
	"github.com/subhankar021/ShopHub/internal/order"
	"github.com/subhankar021/ShopHub/internal/profile"
)

// testLogger discards nothing but keeps output quiet at warn level.
func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return log
}

type MockCatalog struct {
	Products     map[int64]*catalog.Product
	ListResult   []*catalog.Product
	LastFilter   catalog.Filter
	CategoryList []string
	Err          error
}

func (m *MockCatalog) List(_ context.Context, filter catalog.Filter) ([]*catalog.Product, error) {
	m.LastFilter = filter
	return m.ListResult, m.Err
}

func (m *MockCatalog) Get(_ context.Context, id int64) (*catalog.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Products[id]; ok {
		return p, nil
	}
	return nil, catalog.ErrProductNotFound
}

func (m *MockCatalog) Related(_ context.Context, category string, excludeID int64, limit int) ([]*catalog.Product, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var related []*catalog.Product
	for _, p := range m.ListResult {
		if p.Category == category && p.ID != excludeID && len(related) < limit {
			related = append(related, p)
		}
	}
	return related, nil
}

func (m *MockCatalog) Categories(_ context.Context) ([]string, error) {
	return m.CategoryList, m.Err
}

type MockCheckout struct {
	Result  *checkout.Result
	Err     error
	LastReq checkout.Request
	Calls   int

	StatusValue   checkout.Status
	StatusMessage string
}

func (m *MockCheckout) Submit(_ context.Context, req checkout.Request) (*checkout.Result, error) {
	m.Calls++
	m.LastReq = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockCheckout) Status(string) (checkout.Status, string) {
	if m.StatusValue == "" {
		return checkout.StatusIdle, ""
	}
	return m.StatusValue, m.StatusMessage
}

type MockOrders struct {
	Orders map[int64]*order.Order
	Err    error
}

func (m *MockOrders) Get(_ context.Context, id int64, userID string) (*order.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if o, ok := m.Orders[id]; ok && o.UserID == userID {
		return o, nil
	}
	return nil, order.ErrOrderNotFound
}

func (m *MockOrders) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var orders []*order.Order
	for _, o := range m.Orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

type MockAuth struct {
	State      *auth.State
	SignInErr  error
	SignUpErr  error
	SignOutErr error
	UpdateErr  error

	SignedOutToken string
	LastFields     profile.Fields
}

func (m *MockAuth) SignIn(_ context.Context, email, password string) (*auth.State, error) {
	if m.SignInErr != nil {
		return nil, m.SignInErr
	}
	return m.State, nil
}

func (m *MockAuth) SignUp(_ context.Context, email, password, fullName string) (*auth.State, error) {
	if m.SignUpErr != nil {
		return nil, m.SignUpErr
	}
	return m.State, nil
}

func (m *MockAuth) SignOut(_ context.Context, accessToken string) error {
	if m.SignOutErr != nil {
		return m.SignOutErr
	}
	m.SignedOutToken = accessToken
	return nil
}

func (m *MockAuth) UpdateProfile(_ context.Context, accessToken string, fields profile.Fields) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.LastFields = fields
	return nil
}

// MockResolver maps tokens straight to identities.
type MockResolver struct {
	Identities map[string]*auth.Identity
}

func (m *MockResolver) Identity(accessToken string) (*auth.Identity, bool) {
	identity, ok := m.Identities[accessToken]
	return identity, ok
}

var errBoom = errors.New("boom")
