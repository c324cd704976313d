package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionName = "products"

type store interface {
	FindByID(ctx context.Context, id string, out any) (bool, error)
	FindOne(ctx context.Context, filter bson.M, out any) (bool, error)
	Find(ctx context.Context, filter bson.M, out any, sort bson.D) error
	InsertOne(ctx context.Context, document any) (string, error)
	UpdateByID(ctx context.Context, id string, fields bson.M) error
	DeleteByID(ctx context.Context, id string) error
}

// productRecord is the explicit document shape for a catalog entry. The
// price travels as its decimal string so values like 0.01 survive storage
// without float drift.
type productRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       string             `bson:"price"`
	SKU         *string            `bson:"sku,omitempty"`
}

// Repository persists catalog entries in the document store.
type Repository struct {
	store store
}

// NewRepository wraps the products collection.
func NewRepository(coll store) (*Repository, error) {
	if coll == nil {
		return nil, fmt.Errorf("products collection required")
	}
	return &Repository{store: coll}, nil
}

// Insert stores the product and returns its document id.
func (r *Repository) Insert(ctx context.Context, product Product) (string, error) {
	return r.store.InsertOne(ctx, toRecord(product))
}

// FindByID loads a product by document id; a missing document is (zero,
// false, nil).
func (r *Repository) FindByID(ctx context.Context, id string) (Product, bool, error) {
	var record productRecord
	found, err := r.store.FindByID(ctx, id, &record)
	if err != nil || !found {
		return Product{}, false, err
	}
	return fromStoredRecord(record), true, nil
}

// FindByName loads a product by its merge identity.
func (r *Repository) FindByName(ctx context.Context, name string) (Product, bool, error) {
	var record productRecord
	found, err := r.store.FindOne(ctx, bson.M{"name": name}, &record)
	if err != nil || !found {
		return Product{}, false, err
	}
	return fromStoredRecord(record), true, nil
}

// All returns every catalog entry, sorted by name.
func (r *Repository) All(ctx context.Context) ([]Product, error) {
	var records []productRecord
	if err := r.store.Find(ctx, bson.M{}, &records, bson.D{{Key: "name", Value: 1}}); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(records))
	for _, record := range records {
		products = append(products, fromStoredRecord(record))
	}
	return products, nil
}

// UpdatePrice replaces the stored price for the given document id.
func (r *Repository) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) error {
	return r.store.UpdateByID(ctx, id, bson.M{"price": price.String()})
}

// Delete removes the product document.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.store.DeleteByID(ctx, id)
}

func toRecord(product Product) productRecord {
	return productRecord{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.String(),
		SKU:         product.SKU,
	}
}

func fromStoredRecord(record productRecord) Product {
	price, err := decimal.NewFromString(record.Price)
	if err != nil {
		price = decimal.Zero
	}
	product := Product{
		Name:        record.Name,
		Description: record.Description,
		Price:       price,
		SKU:         record.SKU,
	}
	return product
}
