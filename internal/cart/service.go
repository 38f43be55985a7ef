package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickkart/quickkart-backend/internal/pricing"
	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/logger"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Quote pairs the cart document with its current charge breakdown.
type Quote struct {
	Cart      *Cart              `json:"cart"`
	Breakdown *pricing.Breakdown `json:"breakdown"`
}

// Service exposes cart mutations and quoting.
type Service interface {
	GetQuote(ctx context.Context, customerID uuid.UUID) (*Quote, error)
	AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*Quote, error)
	UpdateItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*Quote, error)
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*Quote, error)
	SetGiftPackaging(ctx context.Context, customerID uuid.UUID, enabled bool) (*Quote, error)
	SetTip(ctx context.Context, customerID uuid.UUID, tipCents int) (*Quote, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type service struct {
	store    Store
	products productLoader
	calc     *pricing.Calculator
	maxItems int
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(store Store, products productLoader, calc *pricing.Calculator, maxItems int, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if calc == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if maxItems <= 0 {
		return nil, fmt.Errorf("max cart items must be positive")
	}
	return &service{
		store:    store,
		products: products,
		calc:     calc,
		maxItems: maxItems,
		logg:     logg,
	}, nil
}

func (s *service) GetQuote(ctx context.Context, customerID uuid.UUID) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	cart, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.quote(cart)
}

func (s *service) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	newQty := quantity
	if idx >= 0 {
		newQty += cart.Items[idx].Quantity
	}

	if idx < 0 && cart.ItemCount() >= s.maxItems {
		return nil, rejectErr(enums.CartRejectCartFull, "cart item limit reached")
	}
	if err := checkQuantity(product, newQty); err != nil {
		return nil, err
	}

	line := itemFromProduct(product, newQty)
	if idx >= 0 {
		cart.Items[idx] = line
	} else {
		cart.Items = append(cart.Items, line)
	}

	return s.saveAndQuote(ctx, cart)
}

// UpdateItemQuantity sets the absolute quantity for a line; any quantity
// below one behaves as removal.
func (s *service) UpdateItemQuantity(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if quantity < 1 {
		return s.RemoveItem(ctx, customerID, productID)
	}

	cart, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := checkQuantity(product, quantity); err != nil {
		return nil, err
	}

	cart.Items[idx] = itemFromProduct(product, quantity)
	return s.saveAndQuote(ctx, cart)
}

// RemoveItem drops the line if present. Removing an absent line succeeds and
// leaves the cart untouched, so retried deletes stay safe.
func (s *service) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	cart, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return s.quote(cart)
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	return s.saveAndQuote(ctx, cart)
}

func (s *service) SetGiftPackaging(ctx context.Context, customerID uuid.UUID, enabled bool) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	cart, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	cart.GiftPackaging = enabled
	return s.saveAndQuote(ctx, cart)
}

func (s *service) SetTip(ctx context.Context, customerID uuid.UUID, tipCents int) (*Quote, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if tipCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tip cannot be negative")
	}
	cart, err := s.store.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	cart.TipCents = tipCents
	return s.saveAndQuote(ctx, cart)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.store.Clear(ctx, customerID)
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not available")
	}
	return product, nil
}

func (s *service) saveAndQuote(ctx context.Context, cart *Cart) (*Quote, error) {
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.quote(cart)
}

func (s *service) quote(cart *Cart) (*Quote, error) {
	lines := make([]pricing.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, pricing.Line{
			UnitPriceCents:         item.UnitPriceCents,
			DiscountUnitPriceCents: item.DiscountUnitPriceCents,
			Quantity:               item.Quantity,
		})
	}
	breakdown, err := s.calc.ComputeBreakdown(lines, pricing.Options{
		GiftPackaging: cart.GiftPackaging,
		TipCents:      cart.TipCents,
	})
	if err != nil {
		return nil, err
	}
	return &Quote{Cart: cart, Breakdown: breakdown}, nil
}

func checkQuantity(product *models.Product, quantity int) error {
	if quantity > product.StockQty {
		return rejectErr(enums.CartRejectOutOfStock, "insufficient stock")
	}
	if product.MaxPerOrder > 0 && quantity > product.MaxPerOrder {
		return rejectErr(enums.CartRejectMaxOrderExceeded, "per-order quantity limit reached")
	}
	return nil
}

func itemFromProduct(product *models.Product, quantity int) Item {
	return Item{
		ProductID:              product.ID,
		Name:                   product.Name,
		UnitPriceCents:         product.UnitPriceCents,
		DiscountUnitPriceCents: product.DiscountPriceCents,
		Quantity:               quantity,
		ImageURL:               product.ImageURL,
	}
}

func rejectErr(reason enums.CartRejectReason, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"reason": reason})
}
