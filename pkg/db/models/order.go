package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickkart/quickkart-backend/pkg/enums"
	"github.com/quickkart/quickkart-backend/pkg/types"
)

// Order is the immutable record produced at checkout. Line items are frozen
// copies; only status, payment status and the delivery stamps change after
// creation, and always together with a status-history row.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber         string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID          uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Status              enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	SubtotalCents       int                 `gorm:"column:subtotal_cents;not null"`
	DiscountCents       int                 `gorm:"column:discount_cents;not null;default:0"`
	DeliveryFeeCents    int                 `gorm:"column:delivery_fee_cents;not null;default:0"`
	FulfillmentFeeCents int                 `gorm:"column:fulfillment_fee_cents;not null;default:0"`
	GiftFeeCents        int                 `gorm:"column:gift_fee_cents;not null;default:0"`
	TipCents            int                 `gorm:"column:tip_cents;not null;default:0"`
	TotalCents          int                 `gorm:"column:total_cents;not null"`
	GiftPackaging       bool                `gorm:"column:gift_packaging;not null;default:false"`
	DeliveryAddress     *types.Address      `gorm:"column:delivery_address;type:jsonb;serializer:json"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null;default:'cod'"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	EstimatedDelivery   time.Time           `gorm:"column:estimated_delivery;not null"`
	ActualDelivery      *time.Time          `gorm:"column:actual_delivery"`
	CancelledAt         *time.Time          `gorm:"column:cancelled_at"`
	Items               []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory       []OrderStatusEvent  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
