package payloads

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedEvent is published when checkout produces a new order.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	CustomerID    uuid.UUID `json:"customerId"`
	TotalCents    int       `json:"totalCents"`
	ItemCount     int       `json:"itemCount"`
	PaymentMethod string    `json:"paymentMethod"`
	PlacedAt      time.Time `json:"placedAt"`
}

// OrderStatusChangedEvent is published on every lifecycle transition.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	CustomerID  uuid.UUID `json:"customerId"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	Note        string    `json:"note,omitempty"`
	ChangedAt   time.Time `json:"changedAt"`
}

// OrderDeliveredEvent is published when an order reaches delivered.
type OrderDeliveredEvent struct {
	OrderID       uuid.UUID `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	CustomerID    uuid.UUID `json:"customerId"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentStatus string    `json:"paymentStatus"`
	DeliveredAt   time.Time `json:"deliveredAt"`
}

// OrderCancelledEvent is published when an order is cancelled, whether by a
// customer, staff or the pending-order expiry job.
type OrderCancelledEvent struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	CustomerID  uuid.UUID `json:"customerId"`
	FromStatus  string    `json:"fromStatus"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelledAt"`
}
