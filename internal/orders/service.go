package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickkart/quickkart-backend/pkg/config"
	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/logger"
	"github.com/quickkart/quickkart-backend/pkg/outbox"
	"github.com/quickkart/quickkart-backend/pkg/outbox/payloads"
	"github.com/quickkart/quickkart-backend/pkg/pagination"
)

// statusRank orders the forward lifecycle. Transitions may skip ranks but
// never move backwards; cancelled sits outside the ranking.
var statusRank = map[enums.OrderStatus]int{
	enums.OrderStatusPending:        0,
	enums.OrderStatusConfirmed:      1,
	enums.OrderStatusPicking:        2,
	enums.OrderStatusPacking:        3,
	enums.OrderStatusOutForDelivery: 4,
	enums.OrderStatusDelivered:      5,
}

// Service drives order reads and lifecycle transitions.
type Service interface {
	GetOrder(ctx context.Context, input GetOrderInput) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string, customerID uuid.UUID, role enums.ActorRole) (*models.Order, error)
	ListOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	FulfillmentQueue(ctx context.Context, params pagination.Params) (*OrderList, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	Cancel(ctx context.Context, input TransitionInput) (*models.Order, error)
	ExpirePending(ctx context.Context, limit int) (*ExpireResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	client txRunner
	repo   Repository
	events eventEmitter
	cfg    config.OrdersConfig
	logg   *logger.Logger
}

// NewService wires the order lifecycle service.
func NewService(client txRunner, repo Repository, events eventEmitter, cfg config.OrdersConfig, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		client: client,
		repo:   repo,
		events: events,
		cfg:    cfg,
		logg:   logg,
	}, nil
}

func (s *service) GetOrder(ctx context.Context, input GetOrderInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if input.ActorRole == enums.ActorRoleCustomer && order.CustomerID != input.CustomerID {
		// Hide the existence of other customers' orders.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string, customerID uuid.UUID, role enums.ActorRole) (*models.Order, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if role == enums.ActorRoleCustomer && order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	params.Limit = pagination.NormalizeLimit(params.Limit)
	list, err := s.repo.ListByCustomer(ctx, customerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}

// FulfillmentQueue lists active orders oldest-first for staff working the
// floor.
func (s *service) FulfillmentQueue(ctx context.Context, params pagination.Params) (*OrderList, error) {
	params.Limit = pagination.NormalizeLimit(params.Limit)
	list, err := s.repo.ListActive(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing active orders")
	}
	return list, nil
}

// Transition moves an order to the target status. The status flip is a
// compare-and-set on the previously observed status, so two concurrent
// transitions can't both win.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if err := s.authorizeTransition(order, input); err != nil {
		return nil, err
	}

	from := order.Status
	if from == input.Target {
		// Replayed request, nothing to do.
		return order, nil
	}
	if err := validateTransition(from, input.Target); err != nil {
		return nil, err
	}

	if input.Note == "" {
		input.Note = defaultNoteFor(input.Target)
	}

	now := time.Now().UTC()
	updates := map[string]any{"updated_at": now}
	switch input.Target {
	case enums.OrderStatusDelivered:
		updates["actual_delivery"] = now
		if order.PaymentMethod == enums.PaymentMethodCOD && order.PaymentStatus == enums.PaymentStatusPending {
			updates["payment_status"] = enums.PaymentStatusPaid
		}
	case enums.OrderStatusCancelled:
		updates["cancelled_at"] = now
		if order.PaymentStatus == enums.PaymentStatusPaid {
			updates["payment_status"] = enums.PaymentStatusRefunded
		}
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applied, casErr := txRepo.UpdateStatusCAS(ctx, order.ID, from, input.Target, updates)
		if casErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, casErr, "updating order status")
		}
		if !applied {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently").
				WithDetails(map[string]any{"expected_status": from})
		}

		event := &models.OrderStatusEvent{
			OrderID:    order.ID,
			Status:     input.Target,
			Note:       input.Note,
			ActorID:    input.ActorID,
			RecordedAt: now,
		}
		if input.ActorRole != "" {
			role := input.ActorRole.String()
			event.ActorRole = &role
		}
		if evErr := txRepo.AppendStatusEvent(ctx, event); evErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, evErr, "recording status event")
		}

		return s.emitTransitionEvents(ctx, tx, order, input, from, now)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"from_status": from,
		"to_status":   input.Target,
	})
	s.logg.Info(logCtx, "order status transitioned")

	return s.repo.FindByID(ctx, order.ID)
}

// Cancel is a convenience wrapper that forces the target to cancelled.
func (s *service) Cancel(ctx context.Context, input TransitionInput) (*models.Order, error) {
	input.Target = enums.OrderStatusCancelled
	return s.Transition(ctx, input)
}

// ExpirePending cancels pending orders older than the configured TTL. Each
// order goes through the normal transition path so history rows and events
// stay consistent with manual cancellations.
func (s *service) ExpirePending(ctx context.Context, limit int) (*ExpireResult, error) {
	if limit <= 0 {
		limit = 100
	}
	cutoff := time.Now().UTC().Add(-s.cfg.PendingTTL)

	stale, err := s.repo.FindPendingBefore(ctx, cutoff, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding stale pending orders")
	}

	result := &ExpireResult{Cutoff: cutoff}
	for _, order := range stale {
		_, trErr := s.Transition(ctx, TransitionInput{
			OrderID:   order.ID,
			Target:    enums.OrderStatusCancelled,
			Note:      "cancelled automatically: payment window expired",
			ActorRole: enums.ActorRoleAdmin,
		})
		if trErr != nil {
			// A conflict means another writer already moved the order on.
			if appErr := pkgerrors.As(trErr); appErr != nil && appErr.Code() == pkgerrors.CodeConflict {
				continue
			}
			return result, trErr
		}
		result.Cancelled++
	}
	return result, nil
}

func (s *service) authorizeTransition(order *models.Order, input TransitionInput) error {
	if input.ActorRole != enums.ActorRoleCustomer {
		return nil
	}
	// Customers may only cancel their own pending orders; every other move
	// belongs to fulfillment staff.
	if input.ActorID == nil || order.CustomerID != *input.ActorID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if input.Target != enums.OrderStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeForbidden, "customers can only cancel orders")
	}
	if order.Status != enums.OrderStatusPending {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
			WithDetails(map[string]any{"status": order.Status})
	}
	return nil
}

// defaultNoteFor fills the history note when the caller leaves it blank, so
// every status event reads sensibly in the customer-facing timeline.
func defaultNoteFor(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusConfirmed:
		return "order confirmed"
	case enums.OrderStatusPicking:
		return "items are being picked"
	case enums.OrderStatusPacking:
		return "order is being packed"
	case enums.OrderStatusOutForDelivery:
		return "order is out for delivery"
	case enums.OrderStatusDelivered:
		return "order delivered"
	case enums.OrderStatusCancelled:
		return "order cancelled"
	default:
		return "order status updated"
	}
}

func validateTransition(from, to enums.OrderStatus) error {
	if from.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal state").
			WithDetails(map[string]any{"from": from, "to": to})
	}
	if to == enums.OrderStatusCancelled {
		return nil
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status cannot advance").
			WithDetails(map[string]any{"from": from, "to": to})
	}
	toRank, ok := statusRank[to]
	if !ok || toRank <= fromRank {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status cannot move backwards").
			WithDetails(map[string]any{"from": from, "to": to})
	}
	return nil
}

func (s *service) emitTransitionEvents(ctx context.Context, tx *gorm.DB, order *models.Order, input TransitionInput, from enums.OrderStatus, now time.Time) error {
	actor := actorRef(input)

	changed := outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actor,
		Version:       1,
		OccurredAt:    now,
		Data: payloads.OrderStatusChangedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			CustomerID:  order.CustomerID,
			FromStatus:  from.String(),
			ToStatus:    input.Target.String(),
			Note:        input.Note,
			ChangedAt:   now,
		},
	}
	if err := s.events.Emit(ctx, tx, changed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing status event")
	}

	switch input.Target {
	case enums.OrderStatusDelivered:
		paymentStatus := order.PaymentStatus
		if order.PaymentMethod == enums.PaymentMethodCOD && paymentStatus == enums.PaymentStatusPending {
			paymentStatus = enums.PaymentStatusPaid
		}
		delivered := outbox.DomainEvent{
			EventType:     enums.EventOrderDelivered,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderDeliveredEvent{
				OrderID:       order.ID,
				OrderNumber:   order.OrderNumber,
				CustomerID:    order.CustomerID,
				PaymentMethod: order.PaymentMethod.String(),
				PaymentStatus: paymentStatus.String(),
				DeliveredAt:   now,
			},
		}
		if err := s.events.Emit(ctx, tx, delivered); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing delivered event")
		}
	case enums.OrderStatusCancelled:
		cancelled := outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Version:       1,
			OccurredAt:    now,
			Data: payloads.OrderCancelledEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				CustomerID:  order.CustomerID,
				FromStatus:  from.String(),
				Reason:      input.Note,
				CancelledAt: now,
			},
		}
		if err := s.events.Emit(ctx, tx, cancelled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing cancelled event")
		}
	}
	return nil
}

func actorRef(input TransitionInput) *outbox.ActorRef {
	if input.ActorID == nil {
		return nil
	}
	return &outbox.ActorRef{
		CustomerID: *input.ActorID,
		Role:       input.ActorRole.String(),
	}
}
