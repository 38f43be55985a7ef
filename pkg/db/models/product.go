package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickkart/quickkart-backend/pkg/types"
)

// Product is a catalog record. Listing and search treat it as read-only;
// stock decrements happen at checkout.
type Product struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string           `gorm:"column:name;not null"`
	Description        string           `gorm:"column:description;not null;default:''"`
	Category           string           `gorm:"column:category;not null"`
	Subcategory        string           `gorm:"column:subcategory;not null;default:''"`
	Tags               types.StringList `gorm:"column:tags;type:jsonb;serializer:json"`
	UnitPriceCents     int              `gorm:"column:unit_price_cents;not null"`
	DiscountPriceCents *int             `gorm:"column:discount_price_cents"`
	StockQty           int              `gorm:"column:stock_qty;not null;default:0"`
	MaxPerOrder        int              `gorm:"column:max_per_order;not null;default:10"`
	ImageURL           *string          `gorm:"column:image_url"`
	IsActive           bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveUnitPriceCents returns the discounted price when one is set.
func (p Product) EffectiveUnitPriceCents() int {
	if p.DiscountPriceCents != nil {
		return *p.DiscountPriceCents
	}
	return p.UnitPriceCents
}
