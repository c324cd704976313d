package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tutorloop/checkout-backend/internal/cart"
	"github.com/tutorloop/checkout-backend/pkg/config"
	redisclient "github.com/tutorloop/checkout-backend/pkg/redis"
)

type cartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	SessionCartKey(sessionID string) string
}

// Store keeps the active cart for each shopping session in Redis, serialized
// as JSON. A session without a stored cart gets a fresh empty one.
type Store struct {
	store cartStore
	keyer cartKeyer
	ttl   time.Duration
}

// NewStore constructs a session cart store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.RedisConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}

	return &Store{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// NewSessionID mints an identifier for a fresh shopping session.
func NewSessionID() string {
	return uuid.NewString()
}

// Current returns the cart for the session, or a fresh empty cart when the
// session has none yet.
func (s *Store) Current(ctx context.Context, sessionID string) (*cart.Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	raw, err := s.store.Get(ctx, s.keyer.SessionCartKey(sessionID))
	if redisclient.IsNil(err) {
		return cart.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session cart: %w", err)
	}

	var loaded cart.Cart
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return nil, fmt.Errorf("decoding session cart: %w", err)
	}
	// The cached total travels with the payload, but recompute in case an
	// older writer left it stale.
	loaded.UpdateTotal()
	return &loaded, nil
}

// Save persists the cart under the session key, refreshing its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, c *cart.Cart) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if c == nil {
		return fmt.Errorf("cart is required")
	}

	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding session cart: %w", err)
	}
	if err := s.store.Set(ctx, s.keyer.SessionCartKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("storing session cart: %w", err)
	}
	return nil
}

// Clear drops the session's cart entirely.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if err := s.store.Del(ctx, s.keyer.SessionCartKey(sessionID)); err != nil {
		return fmt.Errorf("clearing session cart: %w", err)
	}
	return nil
}
