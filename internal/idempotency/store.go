package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store reserves checkout submission keys so a retried submission cannot
// create a duplicate order. A reserved key either completes with an order
// id or is released so the retry can proceed.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(k string) string {
	return fmt.Sprintf("idem:checkout:%s", k)
}

// Reserve claims the key for the caller. It returns false when another
// submission already holds or completed it.
func (s *Store) Reserve(ctx context.Context, k string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key(k), "pending", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	return ok, nil
}

// Complete records the order created under the key.
func (s *Store) Complete(ctx context.Context, k string, orderID int64) error {
	if err := s.rdb.Set(ctx, key(k), strconv.FormatInt(orderID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release frees a reserved key after a failed submission, permitting a
// retry with the same key.
func (s *Store) Release(ctx context.Context, k string) error {
	if err := s.rdb.Del(ctx, key(k)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

// OrderID returns the order recorded for a completed key, or 0 when the
// key is unknown or still pending.
func (s *Store) OrderID(ctx context.Context, k string) (int64, error) {
	val, err := s.rdb.Get(ctx, key(k)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get idempotency key: %w", err)
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, nil // still pending
	}
	return id, nil
}
