package helper

import (
	"fmt"
	"log"
	"lomaro_whatsapp/constants"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/model"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Flow screens, in walking order.
const (
	ScreenWelcome      = "WELCOME"
	ScreenCategory     = "CATEGORY"
	ScreenItems        = "ITEMS"
	ScreenCustomize    = "CUSTOMIZE"
	ScreenPromo        = "PROMO"
	ScreenPayment      = "PAYMENT"
	ScreenConfirmation = "CONFIRMATION"
	ScreenSuccess      = "SUCCESS"
)

// FlowRouter maps named flow screens onto the same ordering semantics as the
// chat conversation: category → items → customize → promo → payment →
// confirmation. Finalize and Confirm are injectable for tests.
type FlowRouter struct {
	Catalog  CatalogGateway
	Finalize func(draft *OrderDraft) (*model.Order, error)
	Confirm  func(orderCode string) error
}

func NewFlowRouter(catalog CatalogGateway, db *gorm.DB) *FlowRouter {
	return &FlowRouter{
		Catalog: catalog,
		Finalize: func(draft *OrderDraft) (*model.Order, error) {
			return FinalizeOrder(db, draft)
		},
		Confirm: func(orderCode string) error {
			d := db
			if d == nil {
				d = database.DB
			}
			return d.Model(&model.Order{}).
				Where("public_code = ?", orderCode).
				Update("status", constants.ORDER_STATUS_CONFIRMED).Error
		},
	}
}

// Process routes one decrypted flow request to its screen handler and
// returns the reply to encrypt. An error here is a logic error after a
// successful decrypt — the transport answers it with a plaintext 500.
func (r *FlowRouter) Process(req *FlowRequest) (*FlowResponse, error) {
	switch req.Action {
	case "ping":
		return &FlowResponse{Data: map[string]any{"status": "active"}}, nil
	case "INIT", "BACK":
		// BACK is coarse: it re-enters the category screen, not a true
		// undo of the previous step.
		return r.categoryScreen(map[string]any{})
	case "data_exchange":
	default:
		return nil, fmt.Errorf("unknown flow action: %s", req.Action)
	}

	data := req.Data
	if data == nil {
		data = map[string]any{}
	}

	switch req.Screen {
	case ScreenWelcome:
		return r.categoryScreen(data)
	case ScreenCategory:
		return r.handleCategory(data)
	case ScreenItems:
		return r.handleItems(data)
	case ScreenCustomize:
		return r.handleCustomize(data)
	case ScreenPromo:
		return r.handlePromo(data)
	case ScreenPayment:
		return r.handlePayment(data)
	case ScreenConfirmation:
		return r.handleConfirmation(req, data)
	case ScreenSuccess:
		return r.handleSuccess(data)
	}
	return nil, fmt.Errorf("unknown flow screen: %s", req.Screen)
}

func (r *FlowRouter) categoryScreen(data map[string]any) (*FlowResponse, error) {
	categories, err := r.Catalog.ListCategories()
	if err != nil {
		return nil, err
	}
	return &FlowResponse{
		Screen: ScreenCategory,
		Data: map[string]any{
			"categories": categories,
			"message":    "Select a category",
		},
	}, nil
}

func (r *FlowRouter) handleCategory(data map[string]any) (*FlowResponse, error) {
	selected := asString(data["category"])
	if selected == "" {
		// First load: show the category list on the same screen.
		return r.categoryScreen(data)
	}

	items, err := r.Catalog.ListItems(selected)
	if err != nil {
		return nil, err
	}
	list := make([]map[string]any, 0, len(items))
	for _, item := range items {
		title := item.Name
		if len(item.Sizes) > 0 {
			title = fmt.Sprintf("%s - from Rs. %s", item.Name, Rs(item.Sizes[0].Price))
		} else if item.Price != nil {
			title = fmt.Sprintf("%s - Rs. %s", item.Name, Rs(*item.Price))
		}
		list = append(list, map[string]any{
			"id":    strconv.FormatUint(uint64(item.ID), 10),
			"title": title,
		})
	}
	return &FlowResponse{
		Screen: ScreenItems,
		Data: map[string]any{
			"category": selected,
			"items":    list,
			"message":  fmt.Sprintf("Items in %s", selected),
		},
	}, nil
}

func (r *FlowRouter) handleItems(data map[string]any) (*FlowResponse, error) {
	selectedItem := asString(data["selected_item"])
	category := asString(data["category"])

	itemId, err := strconv.ParseUint(selectedItem, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid selected_item %q", selectedItem)
	}
	item, err := r.Catalog.GetItem(uint(itemId))
	if err != nil {
		return nil, err
	}
	if item == nil {
		// Stale selection (item removed since render): send the fresh list.
		return r.handleCategory(map[string]any{"category": category})
	}

	sizes := make([]map[string]any, 0, len(item.Sizes))
	for _, s := range item.Sizes {
		sizes = append(sizes, map[string]any{
			"id":    strings.ToLower(strings.ReplaceAll(s.Label, " ", "_")),
			"title": fmt.Sprintf("%s - Rs. %s", s.Label, Rs(s.Price)),
		})
	}

	toppings, err := r.Catalog.ListToppings()
	if err != nil {
		return nil, err
	}
	addons := make([]map[string]any, 0, len(toppings))
	for _, t := range toppings {
		price := AddonPrice(&t, "")
		addons = append(addons, map[string]any{
			"id":    strconv.FormatUint(uint64(t.ID), 10),
			"title": fmt.Sprintf("%s +Rs. %s", t.Name, Rs(price)),
		})
	}

	itemPrice := 0.0
	if item.Price != nil {
		itemPrice = *item.Price
	} else if len(item.Sizes) > 0 {
		itemPrice = item.Sizes[0].Price
	}

	return &FlowResponse{
		Screen: ScreenCustomize,
		Data: map[string]any{
			"selected_item": selectedItem,
			"item_name":     item.Name,
			"item_price":    itemPrice,
			"category":      category,
			"sizes":         sizes,
			"addons":        addons,
			"message":       "Customize your order",
		},
	}, nil
}

func (r *FlowRouter) handleCustomize(data map[string]any) (*FlowResponse, error) {
	qty := asInt(data["quantity"])
	if qty < 1 {
		qty = 1
	}
	if qty > 100 {
		qty = 100
	}
	sizeLabel := asString(data["size"])
	itemName := asString(data["item_name"])
	itemPrice := asFloat(data["item_price"])

	// Resolve the chosen size against the live item when we can.
	if itemId, err := strconv.ParseUint(asString(data["selected_item"]), 10, 32); err == nil {
		if item, err := r.Catalog.GetItem(uint(itemId)); err == nil && item != nil {
			for _, s := range item.Sizes {
				if strings.EqualFold(normalizeSizeId(s.Label), normalizeSizeId(sizeLabel)) {
					sizeLabel = s.Label
					itemPrice = s.Price
					break
				}
			}
		}
	}

	addonPrices := []float64{}
	addonNames := []string{}
	for _, id := range asStringSlice(data["addons"]) {
		toppingId, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			continue
		}
		topping, err := r.Catalog.GetItem(uint(toppingId))
		if err != nil || topping == nil {
			continue
		}
		addonPrices = append(addonPrices, AddonPrice(topping, sizeLabel))
		addonNames = append(addonNames, topping.Name)
	}

	itemTotal := LineTotal(itemPrice, addonPrices, qty)
	cartItems := asSlice(data["cart_items"])
	cartItems = append(cartItems, map[string]any{
		"item":       asString(data["selected_item"]),
		"item_name":  itemName,
		"size":       sizeLabel,
		"qty":        qty,
		"addons":     addonNames,
		"unit_price": itemPrice,
		"item_total": itemTotal,
	})

	cartTotal := 0.0
	for _, it := range cartItems {
		if m, ok := it.(map[string]any); ok {
			cartTotal += asFloat(m["item_total"])
		}
	}

	return &FlowResponse{
		Screen: ScreenPromo,
		Data: map[string]any{
			"cart_items": cartItems,
			"cart_total": Round2(cartTotal),
			"item_total": itemTotal,
			"message":    fmt.Sprintf("Cart total: Rs. %s", Rs(cartTotal)),
		},
	}, nil
}

func (r *FlowRouter) handlePromo(data map[string]any) (*FlowResponse, error) {
	promoCode := strings.TrimSpace(asString(data["promo_code"]))
	cartTotal := asFloat(data["cart_total"])

	result := PromoResult{Message: fmt.Sprintf("Total: Rs. %s", Rs(cartTotal))}
	if promoCode != "" {
		promo, err := r.Catalog.GetPromo(promoCode)
		if err != nil {
			return nil, err
		}
		result = ValidatePromo(promo, promoCode, cartTotal, time.Now())
	}

	totals := ComputeTotals(cartTotal, result.Discount)
	return &FlowResponse{
		Screen: ScreenPayment,
		Data: map[string]any{
			"cart_items":  asSlice(data["cart_items"]),
			"cart_total":  totals.Subtotal,
			"discount":    totals.Discount,
			"tax":         totals.Tax,
			"final_total": totals.Total,
			"promo_code":  promoCode,
			"message":     result.Message,
		},
	}, nil
}

func (r *FlowRouter) handlePayment(data map[string]any) (*FlowResponse, error) {
	paymentMethod := asString(data["payment_method"])
	if paymentMethod == "" {
		paymentMethod = "cod"
	}
	finalTotal := asFloat(data["final_total"])
	if finalTotal == 0 {
		finalTotal = asFloat(data["cart_total"])
	}

	out := map[string]any{}
	for k, v := range data {
		out[k] = v
	}
	out["payment_method"] = paymentMethod
	out["final_total"] = finalTotal
	out["message"] = fmt.Sprintf("Payment method: %s", paymentMethod)

	return &FlowResponse{Screen: ScreenConfirmation, Data: out}, nil
}

func (r *FlowRouter) handleConfirmation(req *FlowRequest, data map[string]any) (*FlowResponse, error) {
	name := strings.TrimSpace(asString(data["customer_name"]))
	phone := strings.TrimSpace(asString(data["customer_phone"]))
	address := strings.TrimSpace(asString(data["customer_address"]))
	notes := strings.TrimSpace(asString(data["delivery_notes"]))

	if name == "" || phone == "" || address == "" {
		return &FlowResponse{
			Screen: ScreenConfirmation,
			Data:   map[string]any{"error": "Please fill all required fields"},
		}, nil
	}

	cart := []model.CartLine{}
	for _, it := range asSlice(data["cart_items"]) {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		line := model.CartLine{
			Kind:      model.LineKindRegular,
			ItemName:  asString(m["item_name"]),
			Size:      asString(m["size"]),
			Qty:       asInt(m["qty"]),
			UnitPrice: asFloat(m["unit_price"]),
			LineTotal: asFloat(m["item_total"]),
		}
		if line.Size == "" {
			line.Size = "N/A"
		}
		if line.Qty < 1 {
			line.Qty = 1
		}
		cart = append(cart, line)
	}

	subtotal := asFloat(data["cart_total"])
	if subtotal == 0 {
		for _, line := range cart {
			subtotal += line.LineTotal
		}
	}
	totals := ComputeTotals(subtotal, asFloat(data["discount"]))

	order, err := r.Finalize(&OrderDraft{
		Phone:         phone,
		Name:          name,
		Address:       address,
		Notes:         notes,
		PromoCode:     asString(data["promo_code"]),
		PaymentMethod: asString(data["payment_method"]),
		Language:      model.LanguageEnglish,
		Source:        constants.ORDER_SOURCE_FLOW,
		Cart:          cart,
		Totals:        totals,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[FLOW] order created %s (token %s)", order.PublicCode, req.FlowToken)

	return &FlowResponse{
		Screen: ScreenSuccess,
		Data: map[string]any{
			"order_id":      order.PublicCode,
			"customer_name": name,
			"final_total":   order.TotalAmount,
			"message":       "Order placed successfully",
		},
	}, nil
}

func (r *FlowRouter) handleSuccess(data map[string]any) (*FlowResponse, error) {
	orderId := asString(data["order_id"])
	if orderId != "" {
		if err := r.Confirm(orderId); err != nil {
			log.Printf("[FLOW] failed to confirm order %s: %v", orderId, err)
		}
	}
	// Terminal screen: echo its own name back with the current state.
	return &FlowResponse{
		Screen: ScreenSuccess,
		Data: map[string]any{
			"order_id": orderId,
			"message":  "Thank you for your order!",
		},
	}, nil
}

func normalizeSizeId(label string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", "_"))
}

// Form values arrive loosely typed (strings from inputs, float64 from JSON
// numbers); coerce instead of asserting.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	}
	return 0
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}
	return 0
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return []any{}
}

func asStringSlice(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
