package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is an immutable catalog entry. Its identity for cart merging is
// the name, not the SKU; the SKU is only an external gateway reference.
type Product struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	SKU         *string         `json:"sku,omitempty"`
}

// NewProduct builds a catalog entry without a gateway SKU.
func NewProduct(name, description string, price decimal.Decimal) Product {
	return Product{
		Name:        name,
		Description: description,
		Price:       price,
	}
}

// NewSKUProduct builds a catalog entry carrying its gateway SKU reference.
func NewSKUProduct(name, description string, price decimal.Decimal, sku string) Product {
	product := NewProduct(name, description, price)
	product.SKU = &sku
	return product
}

// ProductFromRecord hydrates a product from a schema-less document record.
// Absent fields stay at their zero values; nothing here fails.
func ProductFromRecord(record map[string]any) Product {
	product := Product{
		Name:        stringField(record, "name"),
		Description: stringField(record, "description"),
		Price:       priceField(record, "price"),
	}
	if sku := stringField(record, "sku"); sku != "" {
		product.SKU = &sku
	}
	return product
}

// Equal reports structural equality over all four fields.
func (p Product) Equal(other Product) bool {
	if p.Name != other.Name || p.Description != other.Description {
		return false
	}
	if !p.Price.Equal(other.Price) {
		return false
	}
	if (p.SKU == nil) != (other.SKU == nil) {
		return false
	}
	return p.SKU == nil || *p.SKU == *other.SKU
}

// SameIdentity reports whether two products refer to the same cart line.
func (p Product) SameIdentity(other Product) bool {
	return p.Name == other.Name
}

func stringField(record map[string]any, key string) string {
	if value, ok := record[key].(string); ok {
		return value
	}
	return ""
}

func priceField(record map[string]any, key string) decimal.Decimal {
	switch value := record[key].(type) {
	case decimal.Decimal:
		return value
	case float64:
		return decimal.NewFromFloat(value)
	case float32:
		return decimal.NewFromFloat32(value)
	case int:
		return decimal.NewFromInt(int64(value))
	case int32:
		return decimal.NewFromInt(int64(value))
	case int64:
		return decimal.NewFromInt(value)
	case string:
		if parsed, err := decimal.NewFromString(value); err == nil {
			return parsed
		}
	}
	return decimal.Zero
}
