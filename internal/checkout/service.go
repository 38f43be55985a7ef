package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickkart/quickkart-backend/internal/cart"
	"github.com/quickkart/quickkart-backend/internal/catalog"
	"github.com/quickkart/quickkart-backend/internal/orders"
	"github.com/quickkart/quickkart-backend/internal/pricing"
	"github.com/quickkart/quickkart-backend/pkg/config"
	"github.com/quickkart/quickkart-backend/pkg/db"
	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/logger"
	"github.com/quickkart/quickkart-backend/pkg/outbox"
	"github.com/quickkart/quickkart-backend/pkg/outbox/payloads"
	"github.com/quickkart/quickkart-backend/pkg/types"
)

// Order numbers are short and human-readable for support calls. The redis
// sequence starts at 1, so the first order lands on QK-100001.
const orderNumberBase = 100000

// PlaceOrderInput carries everything checkout needs beyond the stored cart.
type PlaceOrderInput struct {
	CustomerID      uuid.UUID
	DeliveryAddress types.Address
	PaymentMethod   enums.PaymentMethod
}

// Service converts a stored cart into an immutable order.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type sequence interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

type service struct {
	client     txRunner
	carts      cart.Store
	catalog    catalog.Repository
	ordersRepo orders.Repository
	calculator *pricing.Calculator
	events     eventEmitter
	seq        sequence
	cfg        config.OrdersConfig
	logg       *logger.Logger
}

// NewService wires the checkout service.
func NewService(
	client txRunner,
	carts cart.Store,
	catalogRepo catalog.Repository,
	ordersRepo orders.Repository,
	calculator *pricing.Calculator,
	events eventEmitter,
	seq sequence,
	cfg config.OrdersConfig,
	logg *logger.Logger,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("pricing calculator is required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service is required")
	}
	if seq == nil {
		return nil, fmt.Errorf("sequence source is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		client:     client,
		carts:      carts,
		catalog:    catalogRepo,
		ordersRepo: ordersRepo,
		calculator: calculator,
		events:     events,
		seq:        seq,
		cfg:        cfg,
		logg:       logg,
	}, nil
}

// PlaceOrder re-validates the cart against live catalog state, reserves stock
// and writes the order, its line items, the initial history row and the
// outbox event in one transaction. The cart is cleared only after commit.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if field := input.DeliveryAddress.Validate(); field != "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is incomplete").
			WithDetails(map[string]any{"field": field})
	}

	stored, err := s.carts.Load(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if stored.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	orderNumber, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:                uuid.New(),
		OrderNumber:       orderNumber,
		CustomerID:        input.CustomerID,
		Status:            enums.OrderStatusPending,
		GiftPackaging:     stored.GiftPackaging,
		DeliveryAddress:   &input.DeliveryAddress,
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     enums.PaymentStatusPending,
		EstimatedDelivery: now.Add(s.cfg.EstimatedDeliveryWindow),
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txCatalog := s.catalog.WithTx(tx)
		txOrders := s.ordersRepo.WithTx(tx)

		lines := make([]pricing.Line, 0, len(stored.Items))
		items := make([]models.OrderLineItem, 0, len(stored.Items))
		for _, cartItem := range stored.Items {
			product, findErr := s.loadSellable(ctx, txCatalog, cartItem.ProductID)
			if findErr != nil {
				return findErr
			}
			if cartItem.Quantity > product.MaxPerOrder {
				return rejectErr(enums.CartRejectMaxOrderExceeded, product.ID)
			}

			reserved, stockErr := txCatalog.DecrementStock(ctx, product.ID, cartItem.Quantity)
			if stockErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, stockErr, "reserving stock")
			}
			if !reserved {
				return rejectErr(enums.CartRejectOutOfStock, product.ID)
			}

			line := pricing.Line{
				UnitPriceCents:         product.UnitPriceCents,
				DiscountUnitPriceCents: product.DiscountPriceCents,
				Quantity:               cartItem.Quantity,
			}
			lines = append(lines, line)
			items = append(items, models.OrderLineItem{
				ProductID:              product.ID,
				Name:                   product.Name,
				UnitPriceCents:         product.UnitPriceCents,
				DiscountUnitPriceCents: product.DiscountPriceCents,
				Quantity:               cartItem.Quantity,
				LineTotalCents:         line.LineTotalCents(),
			})
		}

		breakdown, calcErr := s.calculator.ComputeBreakdown(lines, pricing.Options{
			GiftPackaging: stored.GiftPackaging,
			TipCents:      stored.TipCents,
		})
		if calcErr != nil {
			return calcErr
		}

		order.SubtotalCents = breakdown.SubtotalCents
		order.DiscountCents = breakdown.DiscountCents
		order.DeliveryFeeCents = breakdown.DeliveryFeeCents
		order.FulfillmentFeeCents = breakdown.FulfillmentFeeCents
		order.GiftFeeCents = breakdown.GiftFeeCents
		order.TipCents = breakdown.TipCents
		order.TotalCents = breakdown.TotalCents
		order.Items = items

		if _, createErr := txOrders.Create(ctx, order); createErr != nil {
			if db.IsUniqueViolation(createErr, "ux_orders_order_number") {
				// Counter reuse, e.g. redis restored from a stale snapshot.
				return pkgerrors.Wrap(pkgerrors.CodeConflict, createErr, "order number already allocated")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating order")
		}

		role := enums.ActorRoleCustomer.String()
		event := &models.OrderStatusEvent{
			OrderID:    order.ID,
			Status:     enums.OrderStatusPending,
			Note:       "order placed",
			ActorID:    &input.CustomerID,
			ActorRole:  &role,
			RecordedAt: now,
		}
		if evErr := txOrders.AppendStatusEvent(ctx, event); evErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, evErr, "recording status event")
		}

		created := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{CustomerID: input.CustomerID, Role: role},
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderCreatedEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				CustomerID:    order.CustomerID,
				TotalCents:    order.TotalCents,
				ItemCount:     len(order.Items),
				PaymentMethod: order.PaymentMethod.String(),
				PlacedAt:      now,
			},
		}
		if emitErr := s.events.Emit(ctx, tx, created); emitErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, emitErr, "queueing created event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The order is committed; a stale cart is an inconvenience, not a fault.
	if clearErr := s.carts.Clear(ctx, input.CustomerID); clearErr != nil {
		logCtx := s.logg.WithCustomerID(ctx, input.CustomerID.String())
		s.logg.Warn(logCtx, "failed to clear cart after checkout")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"order_number": order.OrderNumber,
		"total_cents":  order.TotalCents,
	})
	s.logg.Info(logCtx, "order placed")

	return order, nil
}

func (s *service) nextOrderNumber(ctx context.Context) (string, error) {
	seq, err := s.seq.Incr(ctx, s.seq.CounterKey("order_number"))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocating order number")
	}
	return fmt.Sprintf("QK-%d", orderNumberBase+seq), nil
}

func (s *service) loadSellable(ctx context.Context, repo catalog.Repository, productID uuid.UUID) (*models.Product, error) {
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejectErr(enums.CartRejectOutOfStock, productID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil || !product.IsActive {
		return nil, rejectErr(enums.CartRejectOutOfStock, productID)
	}
	return product, nil
}

func rejectErr(reason enums.CartRejectReason, productID uuid.UUID) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "cart line no longer satisfiable").
		WithDetails(map[string]any{
			"reason":     reason,
			"product_id": productID.String(),
		})
}
