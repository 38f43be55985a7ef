package cart

import (
	"time"

	"github.com/google/uuid"
)

// Item is one product entry in a customer's cart. Prices are snapshotted at
// add time and refreshed on every mutation so quotes stay current.
type Item struct {
	ProductID              uuid.UUID `json:"product_id"`
	Name                   string    `json:"name"`
	UnitPriceCents         int       `json:"unit_price_cents"`
	DiscountUnitPriceCents *int      `json:"discount_unit_price_cents,omitempty"`
	Quantity               int       `json:"quantity"`
	ImageURL               *string   `json:"image_url,omitempty"`
}

// Cart is the persisted per-customer cart document.
type Cart struct {
	CustomerID    uuid.UUID `json:"customer_id"`
	Items         []Item    `json:"items"`
	GiftPackaging bool      `json:"gift_packaging"`
	TipCents      int       `json:"tip_cents"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCart returns an empty cart for the given customer.
func NewCart(customerID uuid.UUID) *Cart {
	return &Cart{
		CustomerID: customerID,
		Items:      []Item{},
	}
}

// FindItem returns the index of the product's line, or -1.
func (c *Cart) FindItem(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the number of distinct product lines.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// TotalQuantity sums units across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}
