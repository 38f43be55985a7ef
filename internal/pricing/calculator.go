package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/quickkart/quickkart-backend/pkg/config"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
)

// Line is one priced cart entry. The discount price, when set, is the
// effective unit price; the list price is kept to compute savings.
type Line struct {
	UnitPriceCents         int
	DiscountUnitPriceCents *int
	Quantity               int
}

// Options carries order-level pricing inputs beyond the lines themselves.
type Options struct {
	GiftPackaging bool
	TipCents      int
}

// Breakdown is the full charge summary for an order. All amounts are
// integer cents; DiscountPercent is rounded to a whole percent.
type Breakdown struct {
	SubtotalCents       int     `json:"subtotal_cents"`
	DiscountCents       int     `json:"discount_cents"`
	DiscountPercent     float64 `json:"discount_percent"`
	DeliveryFeeCents    int     `json:"delivery_fee_cents"`
	FulfillmentFeeCents int     `json:"fulfillment_fee_cents"`
	GiftFeeCents        int     `json:"gift_fee_cents"`
	TipCents            int     `json:"tip_cents"`
	TotalCents          int     `json:"total_cents"`
}

// Calculator computes order charge breakdowns from a flat fee schedule.
type Calculator struct {
	cfg config.PricingConfig
}

// NewCalculator builds a calculator from the configured fee schedule.
func NewCalculator(cfg config.PricingConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// EffectiveUnitPriceCents returns the price actually charged per unit.
func (l Line) EffectiveUnitPriceCents() int {
	if l.DiscountUnitPriceCents != nil {
		return *l.DiscountUnitPriceCents
	}
	return l.UnitPriceCents
}

// LineTotalCents returns the charged amount for the line.
func (l Line) LineTotalCents() int {
	return l.EffectiveUnitPriceCents() * l.Quantity
}

// ComputeBreakdown derives the full charge summary for the given lines.
// An empty line set yields a zero breakdown with no fees applied.
func (c *Calculator) ComputeBreakdown(lines []Line, opts Options) (*Breakdown, error) {
	if opts.TipCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tip cannot be negative")
	}

	subtotal := 0
	gross := 0
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		if line.DiscountUnitPriceCents != nil {
			if *line.DiscountUnitPriceCents < 0 {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price cannot be negative")
			}
			if *line.DiscountUnitPriceCents > line.UnitPriceCents {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price cannot exceed unit price")
			}
		}
		subtotal += line.LineTotalCents()
		gross += line.UnitPriceCents * line.Quantity
	}

	discount := gross - subtotal

	breakdown := &Breakdown{
		SubtotalCents:   subtotal,
		DiscountCents:   discount,
		DiscountPercent: discountPercent(discount, gross),
		TipCents:        opts.TipCents,
	}

	if len(lines) > 0 {
		if subtotal < c.cfg.FreeDeliveryThresholdCents {
			breakdown.DeliveryFeeCents = c.cfg.DeliveryFeeCents
		}
		breakdown.FulfillmentFeeCents = c.cfg.FulfillmentFeeCents
		if opts.GiftPackaging {
			breakdown.GiftFeeCents = c.cfg.GiftWrapFeeCents
		}
	}

	breakdown.TotalCents = breakdown.SubtotalCents +
		breakdown.DeliveryFeeCents +
		breakdown.FulfillmentFeeCents +
		breakdown.GiftFeeCents +
		breakdown.TipCents

	return breakdown, nil
}

// discountPercent rounds savings relative to the gross (pre-discount) value
// to the nearest whole percent, half away from zero.
func discountPercent(discountCents, grossCents int) float64 {
	if discountCents <= 0 || grossCents <= 0 {
		return 0
	}
	percent := decimal.NewFromInt(int64(discountCents)).
		Div(decimal.NewFromInt(int64(grossCents))).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	value, _ := percent.Float64()
	return value
}
