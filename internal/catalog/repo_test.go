package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRepositoryRoundTrip(t *testing.T) {
	store := newMemStore()
	repo, err := NewRepository(store)
	if err != nil {
		t.Fatalf("NewRepository failed: %v", err)
	}
	ctx := context.Background()

	product := NewSKUProduct("bars", "klondike", decimal.NewFromFloat(0.01), "sku_b")
	id, err := repo.Insert(ctx, product)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	loaded, found, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !found {
		t.Fatalf("expected document %s", id)
	}
	if !loaded.Equal(product) {
		t.Fatalf("round trip mismatch:\n want %+v\n got  %+v", product, loaded)
	}
}

func TestRepositoryFindByName(t *testing.T) {
	store := newMemStore()
	repo, _ := NewRepository(store)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, NewProduct("pitbull", "mr 305", decimal.NewFromInt(10))); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	loaded, found, err := repo.FindByName(ctx, "pitbull")
	if err != nil || !found {
		t.Fatalf("expected pitbull, found=%v err=%v", found, err)
	}
	if loaded.Description != "mr 305" {
		t.Fatalf("unexpected description %q", loaded.Description)
	}

	if _, found, err = repo.FindByName(ctx, "nobody"); err != nil || found {
		t.Fatalf("absent product must be (zero, false, nil), found=%v err=%v", found, err)
	}
}

func TestRepositoryUpdatePriceAndDelete(t *testing.T) {
	store := newMemStore()
	repo, _ := NewRepository(store)
	ctx := context.Background()

	id, err := repo.Insert(ctx, NewProduct("big data", "buzzword", decimal.NewFromInt(1)))
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := repo.UpdatePrice(ctx, id, decimal.RequireFromString("2.50")); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	loaded, _, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !loaded.Price.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("expected updated price, got %s", loaded.Price)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, found, _ := repo.FindByID(ctx, id); found {
		t.Fatalf("expected document gone after delete")
	}
}

// memStore is an in-memory stand-in for the document store collection.
type memStore struct {
	docs map[string]productRecord
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]productRecord)}
}

func (m *memStore) FindByID(ctx context.Context, id string, out any) (bool, error) {
	record, ok := m.docs[id]
	if !ok {
		return false, nil
	}
	*out.(*productRecord) = record
	return true, nil
}

func (m *memStore) FindOne(ctx context.Context, filter bson.M, out any) (bool, error) {
	name, _ := filter["name"].(string)
	for _, record := range m.docs {
		if record.Name == name {
			*out.(*productRecord) = record
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Find(ctx context.Context, filter bson.M, out any, sort bson.D) error {
	records := make([]productRecord, 0, len(m.docs))
	for _, record := range m.docs {
		records = append(records, record)
	}
	*out.(*[]productRecord) = records
	return nil
}

func (m *memStore) InsertOne(ctx context.Context, document any) (string, error) {
	record := document.(productRecord)
	record.ID = primitive.NewObjectID()
	id := record.ID.Hex()
	m.docs[id] = record
	return id, nil
}

func (m *memStore) UpdateByID(ctx context.Context, id string, fields bson.M) error {
	record, ok := m.docs[id]
	if !ok {
		return nil
	}
	if price, ok := fields["price"].(string); ok {
		record.Price = price
	}
	m.docs[id] = record
	return nil
}

func (m *memStore) DeleteByID(ctx context.Context, id string) error {
	delete(m.docs, id)
	return nil
}
