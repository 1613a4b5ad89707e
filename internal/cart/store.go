package cart

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/subhankar021/ShopHub/internal/snapshot"
)

// SnapshotName is the durable storage namespace for cart state. It is
// independent of the auth snapshot.
const SnapshotName = "cart-storage"

// Store keeps one cart per session in memory. Every mutation synchronously
// persists the full snapshot, so a restart between mutation and persistence
// cannot lose a committed change.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	snaps *snapshot.Store
	log   *logrus.Logger
}

func NewStore(snaps *snapshot.Store, log *logrus.Logger) *Store {
	return &Store{
		carts: make(map[string]*Cart),
		snaps: snaps,
		log:   log,
	}
}

// Restore loads the persisted snapshot. A missing snapshot leaves the store
// empty; a corrupt one is reported and the store starts empty.
func (s *Store) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	carts := make(map[string]*Cart)
	err := s.snaps.Load(SnapshotName, &carts)
	if err == snapshot.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	s.carts = carts
	return nil
}

// Add inserts the product with quantity 1, or increments the quantity of
// the existing line for the same product id. The item's Quantity field is
// ignored on input.
func (s *Store) Add(sessionID string, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity++
			s.persist()
			return
		}
	}

	item.Quantity = 1
	c.Items = append(c.Items, item)
	s.persist()
}

// Remove deletes the line for the given product id. Removing an absent
// product is a no-op.
func (s *Store) Remove(sessionID string, productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	for i, item := range c.Items {
		if item.ID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			s.persist()
			return
		}
	}
}

// SetQuantity sets the line's quantity to exactly quantity. A value of 0 or
// below removes the line.
func (s *Store) SetQuantity(sessionID string, productID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(sessionID, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(sessionID)
	for i := range c.Items {
		if c.Items[i].ID == productID {
			c.Items[i].Quantity = quantity
			s.persist()
			return
		}
	}
}

// Clear empties the session's cart unconditionally.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	s.persist()
}

// Items returns a copy of the session's line items in first-added order.
func (s *Store) Items(sessionID string) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return nil
	}
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return items
}

func (s *Store) TotalItems(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.carts[sessionID]; ok {
		return c.TotalItems()
	}
	return 0
}

func (s *Store) TotalPrice(sessionID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.carts[sessionID]; ok {
		return c.TotalPrice()
	}
	return 0
}

// cart returns the session's cart, creating it if needed. Caller holds the
// write lock.
func (s *Store) cart(sessionID string) *Cart {
	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
		s.carts[sessionID] = c
	}
	return c
}

// persist writes the full snapshot. Caller holds the write lock. A failed
// write is logged and the in-memory state stands.
func (s *Store) persist() {
	if err := s.snaps.Save(SnapshotName, s.carts); err != nil {
		s.log.Errorf("persist cart snapshot: %v", err)
	}
}
