package helper

import (
	"fmt"
	"lomaro_whatsapp/model"
	"math"
	"strconv"
	"strings"
	"time"
)

// Round2 làm tròn 2 chữ số thập phân.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rs formats an amount the way it appears in customer messages (no trailing
// zeros, e.g. "120" or "112.5").
func Rs(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', -1, 64)
}

// LineTotal tính tiền một dòng: (đơn giá + topping) × số lượng.
func LineTotal(unitPrice float64, addonPrices []float64, qty int) float64 {
	addons := 0.0
	for _, p := range addonPrices {
		addons += p
	}
	return Round2((unitPrice + addons) * float64(qty))
}

// AddonPrice picks the topping price for the chosen pizza size. When the
// topping has no price for that size the first listed price is used — the
// topping price map is not tied to the line's own size.
func AddonPrice(topping *model.MenuItem, sizeLabel string) float64 {
	if topping == nil {
		return 0
	}
	if topping.Price != nil {
		return *topping.Price
	}
	for _, s := range topping.Sizes {
		if strings.EqualFold(s.Label, sizeLabel) {
			return s.Price
		}
	}
	if len(topping.Sizes) > 0 {
		return topping.Sizes[0].Price
	}
	return 0
}

// PromoResult is the outcome of validating one promo code against one
// subtotal. Message is customer-facing either way.
type PromoResult struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`
}

// ValidatePromo checks a looked-up promo (nil = not found) against the
// subtotal at time now. Invalid codes never fail checkout — the caller shows
// the reason and proceeds without discount.
func ValidatePromo(promo *model.PromoCode, code string, subtotal float64, now time.Time) PromoResult {
	if promo == nil {
		return PromoResult{Message: fmt.Sprintf("Promo code '%s' not found", code)}
	}
	if promo.Status != "active" {
		return PromoResult{Message: fmt.Sprintf("Promo code '%s' is no longer active", promo.Code)}
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return PromoResult{Message: "Promo code not yet valid"}
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return PromoResult{Message: "Promo code has expired"}
	}
	if subtotal < promo.MinOrder {
		return PromoResult{Message: fmt.Sprintf("Minimum order Rs. %s required", Rs(promo.MinOrder))}
	}

	var discount float64
	if promo.DiscountType == "percentage" {
		discount = Round2(subtotal * promo.DiscountValue / 100)
	} else {
		discount = Round2(promo.DiscountValue)
	}
	// A misconfigured fixed promo must not drive the total negative.
	if discount > subtotal {
		discount = subtotal
	}
	return PromoResult{
		Valid:    true,
		Discount: discount,
		Message:  fmt.Sprintf("Promo applied! You saved Rs. %s", Rs(discount)),
	}
}

// OrderTotals là kết quả tính tiền cuối cùng của giỏ hàng.
type OrderTotals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals applies the discount and tax to a subtotal. Tax is currently
// zero-rated for home delivery.
func ComputeTotals(subtotal, discount float64) OrderTotals {
	subtotal = Round2(subtotal)
	if discount > subtotal {
		discount = subtotal
	}
	tax := Round2(subtotal * 0.0)
	return OrderTotals{
		Subtotal: subtotal,
		Discount: Round2(discount),
		Tax:      tax,
		Total:    Round2(subtotal - discount + tax),
	}
}
