package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	catalogsvc "github.com/quickkart/quickkart-backend/internal/catalog"
	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/pagination"
)

type stubCatalogService struct {
	product *models.Product
	list    *catalogsvc.ProductList
	result  *catalogsvc.SearchResult
	err     error

	listParams  pagination.Params
	listFilters catalogsvc.ListFilters
	query       string
	searchLimit int
}

func (s *stubCatalogService) GetProduct(_ context.Context, _ uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) ListProducts(_ context.Context, params pagination.Params, filters catalogsvc.ListFilters) (*catalogsvc.ProductList, error) {
	s.listParams = params
	s.listFilters = filters
	return s.list, s.err
}

func (s *stubCatalogService) Search(_ context.Context, query string, limit int) (*catalogsvc.SearchResult, error) {
	s.query = query
	s.searchLimit = limit
	return s.result, s.err
}

func TestCatalogListForwardsFilters(t *testing.T) {
	svc := &stubCatalogService{list: &catalogsvc.ProductList{Products: []models.Product{}}}
	handler := CatalogList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?category=snacks&limit=5", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listParams.Limit != 5 {
		t.Fatalf("expected limit 5 got %d", svc.listParams.Limit)
	}
	if svc.listFilters.Category == nil || *svc.listFilters.Category != "snacks" {
		t.Fatalf("expected category filter, got %v", svc.listFilters.Category)
	}
}

func TestCatalogListRejectsOversizedLimit(t *testing.T) {
	handler := CatalogList(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog?limit=9999", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogSearchDegradedStillSucceeds(t *testing.T) {
	svc := &stubCatalogService{result: &catalogsvc.SearchResult{Products: []models.Product{}, Degraded: true}}
	handler := CatalogSearch(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?q=milk", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.query != "milk" {
		t.Fatalf("expected query forwarded, got %q", svc.query)
	}
	if svc.searchLimit != 0 {
		t.Fatalf("expected no cap by default, got %d", svc.searchLimit)
	}

	var envelope struct {
		Data catalogsvc.SearchResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Degraded {
		t.Fatal("expected degraded flag surfaced")
	}
}

func TestCatalogSearchForwardsCallerCap(t *testing.T) {
	svc := &stubCatalogService{result: &catalogsvc.SearchResult{Products: []models.Product{}}}
	handler := CatalogSearch(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/search?q=milk&limit=3", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.searchLimit != 3 {
		t.Fatalf("expected limit 3 forwarded, got %d", svc.searchLimit)
	}
}
