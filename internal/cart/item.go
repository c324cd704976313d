package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tutorloop/checkout-backend/internal/catalog"
)

// Currency is the only settlement currency the gateway contract supports.
const Currency = "usd"

const chargeTypeSKU = "sku"

// Item pairs a product with the quantity of it selected. The product is
// shared by reference with the catalog; items never mutate it.
type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int64           `json:"quantity"`
}

// NewItem builds a cart line for the given product and quantity.
func NewItem(product catalog.Product, quantity int64) *Item {
	return &Item{Product: product, Quantity: quantity}
}

// LineTotal returns price multiplied by quantity.
func (i *Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// ChargeRecord projects the line into the shape the gateway expects for an
// order item. This is the only place domain data meets the wire shape.
func (i *Item) ChargeRecord() ChargeRecord {
	return ChargeRecord{
		Amount:      i.LineTotal(),
		Currency:    Currency,
		Description: i.Product.Description,
		Parent:      i.Product.SKU,
		Quantity:    i.Quantity,
		Type:        chargeTypeSKU,
	}
}

// Equal reports structural equality on (product, quantity).
func (i *Item) Equal(other *Item) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.Quantity == other.Quantity && i.Product.Equal(other.Product)
}

// ChargeRecord is the gateway line-item wire shape.
type ChargeRecord struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Parent      *string         `json:"parent"`
	Quantity    int64           `json:"quantity"`
	Type        string          `json:"type"`
}
