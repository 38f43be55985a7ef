package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/quickkart/quickkart-backend/api/middleware"
	cartsvc "github.com/quickkart/quickkart-backend/internal/cart"
	"github.com/quickkart/quickkart-backend/internal/pricing"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
)

type stubCartService struct {
	quote *cartsvc.Quote
	err   error

	addedProduct  uuid.UUID
	addedQuantity int
	cleared       bool
	tipCents      *int
	giftPackaging *bool
}

func (s *stubCartService) GetQuote(_ context.Context, _ uuid.UUID) (*cartsvc.Quote, error) {
	return s.quote, s.err
}

func (s *stubCartService) AddItem(_ context.Context, _, productID uuid.UUID, quantity int) (*cartsvc.Quote, error) {
	s.addedProduct = productID
	s.addedQuantity = quantity
	return s.quote, s.err
}

func (s *stubCartService) UpdateItemQuantity(_ context.Context, _, _ uuid.UUID, _ int) (*cartsvc.Quote, error) {
	return s.quote, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, _, _ uuid.UUID) (*cartsvc.Quote, error) {
	return s.quote, s.err
}

func (s *stubCartService) SetGiftPackaging(_ context.Context, _ uuid.UUID, enabled bool) (*cartsvc.Quote, error) {
	s.giftPackaging = &enabled
	return s.quote, s.err
}

func (s *stubCartService) SetTip(_ context.Context, _ uuid.UUID, tipCents int) (*cartsvc.Quote, error) {
	s.tipCents = &tipCents
	return s.quote, s.err
}

func (s *stubCartService) Clear(_ context.Context, _ uuid.UUID) error {
	s.cleared = true
	return s.err
}

func authedRequest(method, url string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	req = req.WithContext(middleware.WithCustomerID(req.Context(), uuid.NewString()))
	return req
}

func sampleQuote() *cartsvc.Quote {
	return &cartsvc.Quote{
		Cart:      cartsvc.NewCart(uuid.New()),
		Breakdown: &pricing.Breakdown{TotalCents: 46900},
	}
}

func TestCartFetchSuccess(t *testing.T) {
	svc := &stubCartService{quote: sampleQuote()}
	handler := CartFetch(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.Quote `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Breakdown.TotalCents != 46900 {
		t.Fatalf("unexpected total %d", envelope.Data.Breakdown.TotalCents)
	}
}

func TestCartFetchMissingCustomerContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemValidatesBody(t *testing.T) {
	handler := CartAddItem(&stubCartService{quote: sampleQuote()}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", `{"quantity":2}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing product_id got %d", resp.Code)
	}
}

func TestCartAddItemForwardsPayload(t *testing.T) {
	svc := &stubCartService{quote: sampleQuote()}
	handler := CartAddItem(svc, nil)
	productID := uuid.New()

	body := `{"product_id":"` + productID.String() + `","quantity":3}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.addedProduct != productID {
		t.Fatalf("expected product %s got %s", productID, svc.addedProduct)
	}
	if svc.addedQuantity != 3 {
		t.Fatalf("expected quantity 3 got %d", svc.addedQuantity)
	}
}

func TestCartAddItemMapsServiceError(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := CartAddItem(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":1}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartPreferencesRequiresAtLeastOneField(t *testing.T) {
	handler := CartPreferences(&stubCartService{quote: sampleQuote()}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPatch, "/api/v1/cart/preferences", `{}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartPreferencesAppliesBothFields(t *testing.T) {
	svc := &stubCartService{quote: sampleQuote()}
	handler := CartPreferences(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPatch, "/api/v1/cart/preferences", `{"gift_packaging":true,"tip_cents":2000}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.giftPackaging == nil || !*svc.giftPackaging {
		t.Fatal("expected gift packaging enabled")
	}
	if svc.tipCents == nil || *svc.tipCents != 2000 {
		t.Fatal("expected tip forwarded")
	}
}

func TestCartClearReportsCleared(t *testing.T) {
	svc := &stubCartService{}
	handler := CartClear(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatal("expected service clear call")
	}
}
