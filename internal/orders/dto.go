package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/enums"
)

// TransitionInput captures a lifecycle move request.
type TransitionInput struct {
	OrderID   uuid.UUID
	Target    enums.OrderStatus
	Note      string
	ActorID   *uuid.UUID
	ActorRole enums.ActorRole
}

// GetOrderInput scopes an order read to the caller. CustomerID is enforced
// for customer actors and ignored for staff.
type GetOrderInput struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	ActorRole  enums.ActorRole
}

// ListFilters narrows order history reads.
type ListFilters struct {
	Status *enums.OrderStatus
}

// OrderList is one page of a customer's order history.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// ExpireResult summarizes one pending-order expiry sweep.
type ExpireResult struct {
	Cancelled int
	Cutoff    time.Time
}
