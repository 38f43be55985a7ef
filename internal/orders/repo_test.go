package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	"github.com/quickkart/quickkart-backend/pkg/pagination"
)

func mustCreateOrder(t *testing.T, tx *gorm.DB, customerID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   fmt.Sprintf("QK-T%06d", time.Now().UnixNano()%1000000),
		CustomerID:    customerID,
		Status:        status,
		PaymentMethod: enums.PaymentMethodCOD,
		PaymentStatus: enums.PaymentStatusPending,
		TotalCents:    46900,
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestUpdateStatusCASRejectsStaleWriter(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	order := mustCreateOrder(t, tx, uuid.New(), enums.OrderStatusPending)
	repo := NewRepository(tx)

	ok, err := repo.UpdateStatusCAS(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusConfirmed, nil)
	if err != nil {
		t.Fatalf("cas update: %v", err)
	}
	if !ok {
		t.Fatalf("expected first cas update to win")
	}

	ok, err = repo.UpdateStatusCAS(context.Background(), order.ID, enums.OrderStatusPending, enums.OrderStatusCancelled, nil)
	if err != nil {
		t.Fatalf("cas update: %v", err)
	}
	if ok {
		t.Fatalf("expected stale cas update to lose")
	}

	var reloaded models.Order
	if err := tx.Where("id = ?", order.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", reloaded.Status)
	}
}

func TestListByCustomerScopesAndFilters(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	customerID := uuid.New()
	mustCreateOrder(t, tx, customerID, enums.OrderStatusPending)
	mustCreateOrder(t, tx, customerID, enums.OrderStatusDelivered)
	mustCreateOrder(t, tx, uuid.New(), enums.OrderStatusPending)

	repo := NewRepository(tx)

	list, err := repo.ListByCustomer(context.Background(), customerID, pagination.Params{Limit: 10}, ListFilters{})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	for _, order := range list.Orders {
		if order.CustomerID != customerID {
			t.Fatalf("foreign order %s leaked into listing", order.ID)
		}
	}

	status := enums.OrderStatusDelivered
	list, err = repo.ListByCustomer(context.Background(), customerID, pagination.Params{Limit: 10}, ListFilters{Status: &status})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	for _, order := range list.Orders {
		if order.Status != status {
			t.Fatalf("unexpected status %s", order.Status)
		}
	}
}

func TestListActiveExcludesTerminalAndOrdersOldestFirst(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	customerID := uuid.New()
	older := mustCreateOrder(t, tx, customerID, enums.OrderStatusConfirmed)
	if err := tx.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("backdate order: %v", err)
	}
	newer := mustCreateOrder(t, tx, customerID, enums.OrderStatusPending)
	mustCreateOrder(t, tx, customerID, enums.OrderStatusDelivered)
	mustCreateOrder(t, tx, customerID, enums.OrderStatusCancelled)

	repo := NewRepository(tx)
	list, err := repo.ListActive(context.Background(), pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(list.Orders) != 2 {
		t.Fatalf("expected 2 active orders, got %d", len(list.Orders))
	}
	if list.Orders[0].ID != older.ID || list.Orders[1].ID != newer.ID {
		t.Fatalf("expected oldest-first ordering")
	}
}

func TestFindPendingBeforeHonorsCutoff(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	customerID := uuid.New()
	stale := mustCreateOrder(t, tx, customerID, enums.OrderStatusPending)
	if err := tx.Model(stale).Update("created_at", time.Now().Add(-2*time.Hour)).Error; err != nil {
		t.Fatalf("backdate order: %v", err)
	}
	mustCreateOrder(t, tx, customerID, enums.OrderStatusPending)

	repo := NewRepository(tx)
	rows, err := repo.FindPendingBefore(context.Background(), time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("find pending: %v", err)
	}
	found := false
	for _, order := range rows {
		if order.ID == stale.ID {
			found = true
		}
		if order.CreatedAt.After(time.Now().Add(-time.Hour)) {
			t.Fatalf("order %s newer than cutoff", order.ID)
		}
	}
	if !found {
		t.Fatalf("expected stale order in results")
	}
}
