package cart

import (
	"github.com/shopspring/decimal"

	"github.com/tutorloop/checkout-backend/internal/catalog"
)

// Cart is an ordered collection of items with a cached total. The total is
// recomputed as the final step of every mutating operation, never lazily on
// read.
type Cart struct {
	Items []*Item         `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddProduct adds a single unit of the product.
func (c *Cart) AddProduct(product catalog.Product) {
	c.AddProducts(product, 1)
}

// AddProducts adds quantity units of the product, merging into an existing
// line when one matches the product name.
func (c *Cart) AddProducts(product catalog.Product, quantity int64) {
	if item := c.ItemForProduct(product); item != nil {
		item.Quantity += quantity
	} else {
		c.Items = append(c.Items, NewItem(product, quantity))
	}

	c.UpdateTotal()
}

// AddItem merges a ready-made line into the cart. When a line for the same
// product already exists its quantity grows and the incoming item is
// discarded; otherwise the item itself is appended.
func (c *Cart) AddItem(item *Item) {
	if item == nil {
		return
	}
	if existing := c.ItemForProduct(item.Product); existing != nil {
		existing.Quantity += item.Quantity
	} else {
		c.Items = append(c.Items, item)
	}

	c.UpdateTotal()
}

// ItemForProduct returns the first line matching the product name, or nil.
// Every mutator goes through this single lookup.
func (c *Cart) ItemForProduct(product catalog.Product) *Item {
	for _, item := range c.Items {
		if item.Product.SameIdentity(product) {
			return item
		}
	}
	return nil
}

// RemoveProduct drops the line for the product entirely; no-op when absent.
func (c *Cart) RemoveProduct(product catalog.Product) {
	item := c.ItemForProduct(product)
	if item == nil {
		return
	}
	c.removeItem(item)
	c.UpdateTotal()
}

// UpdateProductQuantity replaces the line quantity when quantity is strictly
// positive; zero or negative removes the line.
func (c *Cart) UpdateProductQuantity(product catalog.Product, quantity int64) {
	item := c.ItemForProduct(product)
	if quantity > 0 && item != nil {
		item.Quantity = quantity
	} else if item != nil {
		c.removeItem(item)
	}

	c.UpdateTotal()
}

// UpdateTotal recomputes the cached total from the line totals. It is
// idempotent and safe to call at any time.
func (c *Cart) UpdateTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	c.Total = total
}

// Empty clears the cart back to its freshly constructed state.
func (c *Cart) Empty() {
	c.Items = nil
	c.Total = decimal.Zero
}

// ChargeRecords projects every line through ChargeRecord, preserving item
// order. The resulting list is the checkout payload.
func (c *Cart) ChargeRecords() []ChargeRecord {
	records := make([]ChargeRecord, 0, len(c.Items))
	for _, item := range c.Items {
		records = append(records, item.ChargeRecord())
	}
	return records
}

// Equal compares two carts as unordered multisets of items plus totals;
// item order is intentionally ignored.
func (c *Cart) Equal(other *Cart) bool {
	if c == nil || other == nil {
		return c == other
	}
	if !c.Total.Equal(other.Total) {
		return false
	}
	if len(c.Items) != len(other.Items) {
		return false
	}

	matched := make([]bool, len(other.Items))
	for _, item := range c.Items {
		found := false
		for j, candidate := range other.Items {
			if matched[j] || !item.Equal(candidate) {
				continue
			}
			matched[j] = true
			found = true
			break
		}
		if !found {
			return false
		}
	}
	return true
}

func (c *Cart) removeItem(item *Item) {
	for i, candidate := range c.Items {
		if candidate == item {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}
