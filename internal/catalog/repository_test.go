package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/pagination"
)

func mustCreateProduct(t *testing.T, tx *gorm.DB, name, category string, stock int, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:             uuid.New(),
		Name:           name,
		Category:       category,
		UnitPriceCents: 9900,
		StockQty:       stock,
		MaxPerOrder:    10,
		IsActive:       active,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestListActiveFiltersInactive(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	mustCreateProduct(t, tx, "Visible", "pantry", 5, true)
	mustCreateProduct(t, tx, "Hidden", "pantry", 5, false)

	repo := NewRepository(tx)
	list, err := repo.ListActive(context.Background(), pagination.Params{Limit: 10}, ListFilters{})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	for _, product := range list.Products {
		if !product.IsActive {
			t.Fatalf("inactive product %s leaked into listing", product.Name)
		}
	}
}

func TestListActiveCategoryFilter(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	mustCreateProduct(t, tx, "Rice 5kg", "pantry", 5, true)
	mustCreateProduct(t, tx, "Yogurt", "dairy", 5, true)

	category := "dairy"
	repo := NewRepository(tx)
	list, err := repo.ListActive(context.Background(), pagination.Params{Limit: 10}, ListFilters{Category: &category})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	for _, product := range list.Products {
		if product.Category != category {
			t.Fatalf("unexpected category %s", product.Category)
		}
	}
}

func TestDecrementStockGuardsAgainstOversell(t *testing.T) {
	db := openTestDB(t)
	tx := db.Begin()
	defer tx.Rollback()

	product := mustCreateProduct(t, tx, "Eggs 12pk", "dairy", 3, true)

	repo := NewRepository(tx)
	ok, err := repo.DecrementStock(context.Background(), product.ID, 2)
	if err != nil {
		t.Fatalf("decrement stock: %v", err)
	}
	if !ok {
		t.Fatalf("expected decrement within stock to succeed")
	}

	ok, err = repo.DecrementStock(context.Background(), product.ID, 2)
	if err != nil {
		t.Fatalf("decrement stock: %v", err)
	}
	if ok {
		t.Fatalf("expected decrement beyond stock to fail")
	}

	var reloaded models.Product
	if err := tx.Where("id = ?", product.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if reloaded.StockQty != 1 {
		t.Fatalf("expected stock 1, got %d", reloaded.StockQty)
	}
}
