package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem is a frozen copy of a cart line at checkout time. Catalog
// price changes never alter a placed order.
type OrderLineItem struct {
	ID                     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID                uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID              uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name                   string    `gorm:"column:name;not null"`
	UnitPriceCents         int       `gorm:"column:unit_price_cents;not null"`
	DiscountUnitPriceCents *int      `gorm:"column:discount_unit_price_cents"`
	Quantity               int       `gorm:"column:quantity;not null"`
	LineTotalCents         int       `gorm:"column:line_total_cents;not null"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
}
