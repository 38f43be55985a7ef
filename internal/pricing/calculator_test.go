package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickkart/quickkart-backend/pkg/config"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
)

func testFeeSchedule() config.PricingConfig {
	return config.PricingConfig{
		FreeDeliveryThresholdCents: 59900,
		DeliveryFeeCents:           5900,
		FulfillmentFeeCents:        1000,
		GiftWrapFeeCents:           3000,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestComputeBreakdownDiscountedLine(t *testing.T) {
	calc := NewCalculator(testFeeSchedule())

	breakdown, err := calc.ComputeBreakdown([]Line{
		{UnitPriceCents: 10000, DiscountUnitPriceCents: intPtr(8000), Quantity: 5},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 40000, breakdown.SubtotalCents)
	assert.Equal(t, 10000, breakdown.DiscountCents)
	assert.InDelta(t, 20.0, breakdown.DiscountPercent, 0.001)
	assert.Equal(t, 5900, breakdown.DeliveryFeeCents)
	assert.Equal(t, 1000, breakdown.FulfillmentFeeCents)
	assert.Equal(t, 46900, breakdown.TotalCents)
}

func TestComputeBreakdownFreeDeliveryAtThreshold(t *testing.T) {
	calc := NewCalculator(testFeeSchedule())

	breakdown, err := calc.ComputeBreakdown([]Line{
		{UnitPriceCents: 59900, Quantity: 1},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 59900, breakdown.SubtotalCents)
	assert.Equal(t, 0, breakdown.DeliveryFeeCents)
	assert.Equal(t, 1000, breakdown.FulfillmentFeeCents)
	assert.Equal(t, 60900, breakdown.TotalCents)
}

func TestComputeBreakdownJustBelowThreshold(t *testing.T) {
	calc := NewCalculator(testFeeSchedule())

	breakdown, err := calc.ComputeBreakdown([]Line{
		{UnitPriceCents: 59899, Quantity: 1},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 5900, breakdown.DeliveryFeeCents)
}

func TestComputeBreakdownGiftAndTip(t *testing.T) {
	calc := NewCalculator(testFeeSchedule())

	breakdown, err := calc.ComputeBreakdown([]Line{
		{UnitPriceCents: 20000, Quantity: 2},
	}, Options{GiftPackaging: true, TipCents: 500})
	require.NoError(t, err)

	assert.Equal(t, 40000, breakdown.SubtotalCents)
	assert.Equal(t, 3000, breakdown.GiftFeeCents)
	assert.Equal(t, 500, breakdown.TipCents)
	assert.Equal(t, 40000+5900+1000+3000+500, breakdown.TotalCents)
}

func TestComputeBreakdownEmptyCartHasNoFees(t *testing.T) {
	calc := NewCalculator(testFeeSchedule())

	breakdown, err := calc.ComputeBreakdown(nil, Options{GiftPackaging: true})
	require.NoError(t, err)

	assert.Equal(t, 0, breakdown.SubtotalCents)
	assert.Equal(t, 0, breakdown.DeliveryFeeCents)
	assert.Equal(t, 0, breakdown.FulfillmentFeeCents)
	assert.Equal(t, 0, breakdown.GiftFeeCents)
	assert.Equal(t, 0, breakdown.TotalCents)
}

func TestComputeBreakdownDiscountPercentRounding(t *testing.T) {
	calc := NewCalculator(testFeeSchedule())

	// 1000 off a 29900 gross: 3.3445% rounds down to 3.
	breakdown, err := calc.ComputeBreakdown([]Line{
		{UnitPriceCents: 29900, DiscountUnitPriceCents: intPtr(28900), Quantity: 1},
	}, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, breakdown.DiscountPercent, 0.001)

	// 1050 off a 30000 gross: 3.5% rounds half up to 4.
	breakdown, err = calc.ComputeBreakdown([]Line{
		{UnitPriceCents: 30000, DiscountUnitPriceCents: intPtr(28950), Quantity: 1},
	}, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, breakdown.DiscountPercent, 0.001)
}

func TestComputeBreakdownValidation(t *testing.T) {
	calc := NewCalculator(testFeeSchedule())

	cases := map[string][]Line{
		"zero quantity":         {{UnitPriceCents: 100, Quantity: 0}},
		"negative quantity":     {{UnitPriceCents: 100, Quantity: -1}},
		"negative price":        {{UnitPriceCents: -1, Quantity: 1}},
		"negative discount":     {{UnitPriceCents: 100, DiscountUnitPriceCents: intPtr(-1), Quantity: 1}},
		"discount above list":   {{UnitPriceCents: 100, DiscountUnitPriceCents: intPtr(200), Quantity: 1}},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := calc.ComputeBreakdown(lines, Options{})
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}

	_, err := calc.ComputeBreakdown([]Line{{UnitPriceCents: 100, Quantity: 1}}, Options{TipCents: -1})
	require.Error(t, err)
}
