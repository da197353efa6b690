package cart

import (
	"context"
	"encoding/json"
	"time"

	redisclient "github.com/teeshirtate/storefront-backend/pkg/redis"
)

type cartKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// Store persists cart snapshots in Redis as JSON blobs keyed by cart id.
type Store struct {
	kv  cartKV
	ttl time.Duration
}

// NewStore constructs a cart store. Every write refreshes the TTL so active
// carts never expire mid-session.
func NewStore(kv cartKV, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

// Load returns the cart snapshot, or nil when none exists.
func (s *Store) Load(ctx context.Context, cartID string) (*Cart, error) {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(cartID))
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save writes the cart snapshot.
func (s *Store) Save(ctx context.Context, cart *Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CartKey(cart.ID), string(raw), s.ttl)
}

// Drop removes the cart snapshot entirely.
func (s *Store) Drop(ctx context.Context, cartID string) error {
	return s.kv.Del(ctx, s.kv.CartKey(cartID))
}
