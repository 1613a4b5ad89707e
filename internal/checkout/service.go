package checkout

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/subhankar021/ShopHub/internal/auth"
	"github.com/subhankar021/ShopHub/internal/cart"
	"github.com/subhankar021/ShopHub/internal/order"
	"github.com/subhankar021/ShopHub/internal/profile"
)

// TaxRate is the flat tax applied to the cart subtotal; shipping is free.
const TaxRate = 0.10

// CartStore is the slice of the cart store the flow needs.
type CartStore interface {
	Items(sessionID string) []cart.Item
	TotalPrice(sessionID string) float64
	Clear(sessionID string)
}

// IdentitySource resolves session tokens to identities and mirrors the
// out-of-band address write.
type IdentitySource interface {
	Identity(accessToken string) (*auth.Identity, bool)
	MergeAddress(accessToken, address string)
}

type OrderRepository interface {
	Create(ctx context.Context, userID string, status order.Status, total float64) (int64, error)
	CreateItems(ctx context.Context, items []order.Item) error
	SetStatus(ctx context.Context, id int64, status order.Status) error
}

type ProfileRepository interface {
	Update(ctx context.Context, id string, fields profile.Fields) error
}

// IdempotencyStore guards order creation against duplicate submissions.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Complete(ctx context.Context, key string, orderID int64) error
	Release(ctx context.Context, key string) error
	OrderID(ctx context.Context, key string) (int64, error)
}

// ShippingForm carries the submitted shipping fields used to derive a
// profile address when the identity has none stored.
type ShippingForm struct {
	FullName string
	Email    string
	Address  string
	City     string
	State    string
	ZipCode  string
	Country  string
}

type Request struct {
	SessionID      string
	AccessToken    string
	IdempotencyKey string
	Shipping       ShippingForm
}

type Result struct {
	OrderID int64
	// Duplicate is set when the idempotency key had already completed and
	// the original order is returned instead of writing a new one.
	Duplicate bool
}

type submission struct {
	status  Status
	message string
}

// Service runs the checkout write sequence: create order, create order
// items, conditionally store a profile address, clear the cart. The
// sequence is linear and non-transactional; a failed item write marks the
// order failed rather than leaving a silent orphan.
type Service struct {
	cart       CartStore
	identities IdentitySource
	orders     OrderRepository
	profiles   ProfileRepository
	idem       IdempotencyStore
	log        *logrus.Logger

	mu          sync.Mutex
	submissions map[string]*submission
}

func NewService(
	cartStore CartStore,
	identities IdentitySource,
	orders OrderRepository,
	profiles ProfileRepository,
	idem IdempotencyStore,
	log *logrus.Logger,
) *Service {
	return &Service{
		cart:        cartStore,
		identities:  identities,
		orders:      orders,
		profiles:    profiles,
		idem:        idem,
		log:         log,
		submissions: make(map[string]*submission),
	}
}

// Status reports the session's last submission state and, for failures,
// its user-facing message.
func (s *Service) Status(sessionID string) (Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub, ok := s.submissions[sessionID]; ok {
		return sub.status, sub.message
	}
	return StatusIdle, ""
}

// Submit runs the flow for one session. Preconditions (identity present,
// cart non-empty) are checked before any write; their absence issues no
// database traffic.
func (s *Service) Submit(ctx context.Context, req Request) (*Result, error) {
	identity, ok := s.identities.Identity(req.AccessToken)
	if !ok {
		return nil, ErrNotAuthenticated
	}

	items := s.cart.Items(req.SessionID)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := s.begin(req.SessionID); err != nil {
		return nil, err
	}

	reserved, err := s.idem.Reserve(ctx, req.IdempotencyKey)
	if err != nil {
		s.log.Errorf("idempotency reserve failed: %v", err)
		s.fail(req.SessionID, ErrCheckoutFailed.Error())
		return nil, ErrCheckoutFailed
	}
	if !reserved {
		return s.resolveDuplicate(ctx, req)
	}

	subtotal := s.cart.TotalPrice(req.SessionID)
	total := roundCents(subtotal * (1 + TaxRate))

	orderID, err := s.orders.Create(ctx, identity.ID, order.StatusPending, total)
	if err != nil {
		s.log.Errorf("order create failed for %s: %v", identity.ID, err)
		s.releaseKey(ctx, req.IdempotencyKey)
		s.fail(req.SessionID, ErrCheckoutFailed.Error())
		return nil, ErrCheckoutFailed
	}

	orderItems := make([]order.Item, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, order.Item{
			OrderID:   orderID,
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	if err := s.orders.CreateItems(ctx, orderItems); err != nil {
		s.log.Errorf("order items create failed for order %d: %v", orderID, err)
		// Compensation: the order row exists without items, mark it failed
		// for reconciliation instead of deleting the evidence.
		if e2 := s.orders.SetStatus(ctx, orderID, order.StatusFailed); e2 != nil {
			s.log.Errorf("failed to mark order %d failed: %v", orderID, e2)
		}
		s.releaseKey(ctx, req.IdempotencyKey)
		s.fail(req.SessionID, ErrCheckoutFailed.Error())
		return nil, ErrCheckoutFailed
	}

	if identity.Address == "" {
		s.storeAddress(ctx, identity.ID, req.AccessToken, req.Shipping)
	}

	if err := s.idem.Complete(ctx, req.IdempotencyKey, orderID); err != nil {
		s.log.Errorf("idempotency complete failed for order %d: %v", orderID, err)
	}

	s.cart.Clear(req.SessionID)
	s.succeed(req.SessionID)
	return &Result{OrderID: orderID}, nil
}

// resolveDuplicate answers a submission whose idempotency key was already
// claimed: a completed key returns the original order, a still-pending one
// is rejected.
func (s *Service) resolveDuplicate(ctx context.Context, req Request) (*Result, error) {
	orderID, err := s.idem.OrderID(ctx, req.IdempotencyKey)
	if err != nil {
		s.log.Errorf("idempotency lookup failed: %v", err)
		s.fail(req.SessionID, ErrCheckoutFailed.Error())
		return nil, ErrCheckoutFailed
	}
	if orderID == 0 {
		s.fail(req.SessionID, ErrSubmissionInFlight.Error())
		return nil, ErrSubmissionInFlight
	}

	s.log.Warnf("duplicate checkout submission for key %s, returning order %d",
		req.IdempotencyKey, orderID)
	s.cart.Clear(req.SessionID)
	s.succeed(req.SessionID)
	return &Result{OrderID: orderID, Duplicate: true}, nil
}

// storeAddress derives a profile address from the shipping form and writes
// it. Failure here is logged, never surfaced: checkout proceeds.
func (s *Service) storeAddress(ctx context.Context, userID, accessToken string, form ShippingForm) {
	address := fmt.Sprintf("%s, %s, %s %s, %s",
		form.Address, form.City, form.State, form.ZipCode, form.Country)

	if err := s.profiles.Update(ctx, userID, profile.Fields{"address": address}); err != nil {
		s.log.Errorf("error updating profile address for %s: %v", userID, err)
		return
	}
	s.identities.MergeAddress(accessToken, address)
}

// begin moves the session to Submitting; a submission already in flight is
// rejected so the flow cannot double-write.
func (s *Service) begin(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub, ok := s.submissions[sessionID]; ok && sub.status == StatusSubmitting {
		return ErrSubmissionInFlight
	}
	s.submissions[sessionID] = &submission{status: StatusSubmitting}
	return nil
}

func (s *Service) succeed(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sessionID] = &submission{status: StatusSucceeded}
}

func (s *Service) fail(sessionID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions[sessionID] = &submission{status: StatusFailed, message: message}
}

func (s *Service) releaseKey(ctx context.Context, key string) {
	if err := s.idem.Release(ctx, key); err != nil {
		s.log.Errorf("idempotency release failed: %v", err)
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
