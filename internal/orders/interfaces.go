package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	"github.com/quickkart/quickkart-backend/pkg/pagination"
)

// Repository defines persistence operations for customer orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListActive(ctx context.Context, params pagination.Params) (*OrderList, error)
	UpdateStatusCAS(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus, updates map[string]any) (bool, error)
	AppendStatusEvent(ctx context.Context, event *models.OrderStatusEvent) error
	FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
}
