package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tutorloop/checkout-backend/pkg/config"
	redisclient "github.com/tutorloop/checkout-backend/pkg/redis"
)

const checkoutGuardScope = "checkout"

type nxStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type idempotencyKeyer interface {
	IdempotencyKey(scope, id string) string
}

// CheckoutGuard claims a session-scoped key in Redis for the duration of a
// checkout attempt, so a double submit cannot charge the same cart twice.
// The claim expires on its own if a dead attempt never releases it.
type CheckoutGuard struct {
	store nxStore
	keyer idempotencyKeyer
	ttl   time.Duration
}

// NewCheckoutGuard constructs a checkout guard backed by Redis.
func NewCheckoutGuard(client *redisclient.Client, cfg config.RedisConfig) (*CheckoutGuard, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.CheckoutGuardTTL <= 0 {
		return nil, fmt.Errorf("checkout guard ttl must be positive")
	}

	return &CheckoutGuard{
		store: client,
		keyer: client,
		ttl:   cfg.CheckoutGuardTTL,
	}, nil
}

// Acquire claims the session's checkout slot. It reports false when another
// attempt already holds the claim.
func (g *CheckoutGuard) Acquire(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	acquired, err := g.store.SetNX(ctx, g.keyer.IdempotencyKey(checkoutGuardScope, sessionID), "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("claiming checkout guard: %w", err)
	}
	return acquired, nil
}

// Release drops the session's checkout claim.
func (g *CheckoutGuard) Release(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if err := g.store.Del(ctx, g.keyer.IdempotencyKey(checkoutGuardScope, sessionID)); err != nil {
		return fmt.Errorf("releasing checkout guard: %w", err)
	}
	return nil
}
