package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickkart/quickkart-backend/pkg/enums"
)

// OrderStatusEvent is one append-only entry in an order's status history.
// Rows are written in the same transaction as the order's status column.
type OrderStatusEvent struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	Status     enums.OrderStatus `gorm:"column:status;type:order_status;not null"`
	Note       string            `gorm:"column:note;not null;default:''"`
	ActorID    *uuid.UUID        `gorm:"column:actor_id;type:uuid"`
	ActorRole  *string           `gorm:"column:actor_role"`
	RecordedAt time.Time         `gorm:"column:recorded_at;not null"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
}
