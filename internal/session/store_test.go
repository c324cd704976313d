package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tutorloop/checkout-backend/internal/cart"
	"github.com/tutorloop/checkout-backend/internal/catalog"
)

func newTestStore() (*Store, *stubCartStore) {
	stub := newStubCartStore()
	return &Store{store: stub, keyer: stub, ttl: time.Hour}, stub
}

func TestCurrentReturnsFreshCartWhenAbsent(t *testing.T) {
	store, _ := newTestStore()

	current, err := store.Current(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !current.Equal(cart.New()) {
		t.Fatalf("expected a fresh empty cart, got %+v", current)
	}
}

func TestSaveAndCurrentRoundTrip(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	original := cart.New()
	original.AddProducts(catalog.NewProduct("bars", "klondike", decimal.NewFromInt(5)), 3)
	original.AddProducts(catalog.NewSKUProduct("pitbull", "mr 305", decimal.NewFromInt(10), "sku_p"), 4)

	if err := store.Save(ctx, "sess-1", original); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Current(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !loaded.Equal(original) {
		t.Fatalf("round trip mismatch:\n want %+v\n got  %+v", original, loaded)
	}
	if !loaded.Total.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("unexpected total %s", loaded.Total)
	}
}

func TestCurrentRecomputesStaleTotal(t *testing.T) {
	store, stub := newTestStore()
	key := stub.SessionCartKey("sess-1")
	stub.data[key] = `{"items":[{"product":{"name":"bars","description":"klondike","price":"5"},"quantity":3}],"total":"999"}`

	loaded, err := store.Current(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !loaded.Total.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected recomputed total 15, got %s", loaded.Total)
	}
}

func TestClearDropsCart(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	c := cart.New()
	c.AddProduct(catalog.NewProduct("big data", "buzzword", decimal.NewFromInt(1)))
	if err := store.Save(ctx, "sess-1", c); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	current, err := store.Current(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(current.Items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", current.Items)
	}
}

func TestSessionIDRequired(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	if _, err := store.Current(ctx, " "); err == nil {
		t.Fatalf("expected error for blank session id")
	}
	if err := store.Save(ctx, "", cart.New()); err == nil {
		t.Fatalf("expected error for blank session id")
	}
	if err := store.Clear(ctx, ""); err == nil {
		t.Fatalf("expected error for blank session id")
	}
	if err := store.Save(ctx, "sess-1", nil); err == nil {
		t.Fatalf("expected error for nil cart")
	}
}

type stubCartStore struct {
	data map[string]string
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{data: make(map[string]string)}
}

func (s *stubCartStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = value.(string)
	return nil
}

func (s *stubCartStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *stubCartStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubCartStore) SessionCartKey(sessionID string) string {
	return "tl:cart:" + sessionID
}
