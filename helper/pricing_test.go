package helper

import (
	"lomaro_whatsapp/model"
	"lomaro_whatsapp/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activePromo() *model.PromoCode {
	return &model.PromoCode{
		Code:          "SAVE10",
		DiscountType:  "percentage",
		DiscountValue: 10,
		MinOrder:      1000,
		Status:        "active",
	}
}

func TestValidatePromoPercentage(t *testing.T) {
	now := time.Now()

	res := ValidatePromo(activePromo(), "SAVE10", 1200, now)
	assert.True(t, res.Valid)
	assert.Equal(t, 120.0, res.Discount)
	assert.Equal(t, "Promo applied! You saved Rs. 120", res.Message)

	totals := ComputeTotals(1200, res.Discount)
	assert.Equal(t, 1080.0, totals.Total)
}

func TestValidatePromoBelowMinOrder(t *testing.T) {
	res := ValidatePromo(activePromo(), "SAVE10", 900, time.Now())
	assert.False(t, res.Valid)
	assert.Equal(t, 0.0, res.Discount)
	assert.Equal(t, "Minimum order Rs. 1000 required", res.Message)
}

func TestValidatePromoNotFound(t *testing.T) {
	res := ValidatePromo(nil, "NOPE99", 2000, time.Now())
	assert.False(t, res.Valid)
	assert.Equal(t, "Promo code 'NOPE99' not found", res.Message)
}

func TestValidatePromoTimeWindow(t *testing.T) {
	now := time.Now()

	early := activePromo()
	early.ValidFrom = utils.Ptr(now.Add(24 * time.Hour))
	res := ValidatePromo(early, "SAVE10", 2000, now)
	assert.False(t, res.Valid)
	assert.Equal(t, "Promo code not yet valid", res.Message)

	late := activePromo()
	late.ValidUntil = utils.Ptr(now.Add(-24 * time.Hour))
	res = ValidatePromo(late, "SAVE10", 2000, now)
	assert.False(t, res.Valid)
	assert.Equal(t, "Promo code has expired", res.Message)

	inactive := activePromo()
	inactive.Status = "inactive"
	res = ValidatePromo(inactive, "SAVE10", 2000, now)
	assert.False(t, res.Valid)
	assert.Equal(t, "Promo code 'SAVE10' is no longer active", res.Message)
}

func TestValidatePromoFixedClampedToSubtotal(t *testing.T) {
	fixed := &model.PromoCode{
		Code:          "FLAT200",
		DiscountType:  "fixed",
		DiscountValue: 200,
		MinOrder:      0,
		Status:        "active",
	}

	res := ValidatePromo(fixed, "FLAT200", 1500, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, 200.0, res.Discount)

	// Misconfigured fixed discount larger than the cart never goes negative.
	res = ValidatePromo(fixed, "FLAT200", 150, time.Now())
	assert.True(t, res.Valid)
	assert.Equal(t, 150.0, res.Discount)
	assert.Equal(t, 0.0, ComputeTotals(150, res.Discount).Total)
}

func TestValidatePromoIsIdempotent(t *testing.T) {
	now := time.Now()
	first := ValidatePromo(activePromo(), "SAVE10", 1200, now)
	second := ValidatePromo(activePromo(), "SAVE10", 1200, now)
	assert.Equal(t, first, second)
}

func TestLineTotalWithAddons(t *testing.T) {
	assert.Equal(t, 2250.0, LineTotal(750, nil, 3))
	assert.Equal(t, 1300.0, LineTotal(550, []float64{100}, 2))
	assert.Equal(t, 0.0, LineTotal(0, nil, 5))
}

func TestAddonPriceSizeFallback(t *testing.T) {
	topping := &model.MenuItem{
		Name: "Extra Cheese",
		Sizes: []model.MenuItemSize{
			{Label: "Regular", Price: 100},
			{Label: "Large", Price: 150},
		},
	}

	assert.Equal(t, 150.0, AddonPrice(topping, "Large"))
	assert.Equal(t, 100.0, AddonPrice(topping, "regular")) // case-insensitive
	// Unknown size falls back to the first listed price.
	assert.Equal(t, 100.0, AddonPrice(topping, "XL"))
	assert.Equal(t, 0.0, AddonPrice(nil, "Large"))

	flat := &model.MenuItem{Name: "Olives", Price: utils.Ptr(80.0)}
	assert.Equal(t, 80.0, AddonPrice(flat, "Large"))
}

func TestRsFormatting(t *testing.T) {
	assert.Equal(t, "120", Rs(120))
	assert.Equal(t, "112.5", Rs(112.5))
	assert.Equal(t, "112.55", Rs(112.549))
}
