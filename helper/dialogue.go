package helper

import (
	"fmt"
	"lomaro_whatsapp/constants"
	"lomaro_whatsapp/model"
	"strconv"
	"strings"
)

// OrderDraft is the "create order" side-effect intent. The state machine
// never touches the orders table itself; the transport executes the draft and
// renders the confirmation from the finalized order.
type OrderDraft struct {
	Phone         string
	Name          string
	Address       string
	Notes         string
	Language      string
	PromoCode     string
	PaymentMethod string
	Source        string
	Cart          []model.CartLine
	Totals        OrderTotals
}

// Transition is the outcome of one conversation turn. The session has been
// advanced to its next state in place; Finalize, when set, must be executed
// by the caller (success → reset the session to idle, failure → leave the
// session in confirm so the customer can retry).
type Transition struct {
	Reply    string
	Finalize *OrderDraft
}

func normalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func matchesAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if text == k {
			return true
		}
	}
	return false
}

// HandleUserMessage runs one turn of the free-text ordering conversation.
// Catalog lists are fetched fresh on every numbered selection, so the ordinal
// is checked against the live list length. Known hazard: if the catalog
// changed between render and reply, an in-range ordinal can still resolve to
// a different item than the one the customer saw.
func HandleUserMessage(catalog CatalogGateway, session *model.Session, textBody string) Transition {
	text := normalizeText(textBody)

	// Global rules, before any state logic.
	if matchesAny(text, constants.RestartKeywords) {
		session.ResetToMenu()
		return Transition{Reply: renderMainMenuOr(catalog)}
	}
	if session.Language == "" && matchesAny(text, constants.GreetingKeywords) {
		session.State = model.StatePickLanguage
		return Transition{Reply: RenderLanguagePrompt()}
	}

	switch session.State {
	case model.StatePickLanguage:
		return handlePickLanguage(session, text)
	case model.StateIdle:
		return handleIdle(catalog, session, text)
	case model.StateShowMenu:
		return handleShowMenu(catalog, session, text)
	case model.StatePickDeal:
		return handlePickDeal(catalog, session, text)
	case model.StatePickItem:
		return handlePickItem(catalog, session, text)
	case model.StatePickSize:
		return handlePickSize(catalog, session, text)
	case model.StatePickQty:
		return handlePickQty(session, text)
	case model.StateAddMore:
		return handleAddMore(catalog, session, text)
	case model.StateAskName:
		return handleAskName(session, text, textBody)
	case model.StateAskAddress:
		return handleAskAddress(session, text, textBody)
	case model.StateConfirmOrder:
		return handleConfirmOrder(session, text)
	}

	return Transition{Reply: DefaultResponse(session.Language)}
}

func handlePickLanguage(session *model.Session, text string) Transition {
	switch text {
	case "1":
		session.Language = model.LanguageEnglish
	case "2":
		session.Language = model.LanguageUrdu
	default:
		return Transition{Reply: RenderLanguagePrompt()}
	}
	session.State = model.StateIdle
	return Transition{Reply: DefaultResponse(session.Language)}
}

func handleIdle(catalog CatalogGateway, session *model.Session, text string) Transition {
	if text == "" {
		return Transition{Reply: DefaultResponse(session.Language)}
	}
	// Any non-empty message in idle starts a fresh menu.
	session.ResetToMenu()
	return Transition{Reply: renderMainMenuOr(catalog)}
}

func handleShowMenu(catalog CatalogGateway, session *model.Session, text string) Transition {
	categories, err := catalog.ListCategories()
	if err != nil {
		return Transition{Reply: TransientErrorReply}
	}
	totalOptions := len(categories) + 1 // +1 for Deals

	if text == "" {
		return Transition{Reply: RenderMainMenu(categories)}
	}

	idx, err := strconv.Atoi(text)
	if err != nil {
		return Transition{Reply: fmt.Sprintf("❌ Invalid input. Please reply with a category number (1-%d).", totalOptions)}
	}

	// Last option is always Special Deals.
	if idx == totalOptions {
		deals, err := catalog.ListDeals()
		if err != nil {
			return Transition{Reply: TransientErrorReply}
		}
		session.State = model.StatePickDeal
		return Transition{Reply: RenderDealsMenu(deals)}
	}

	if idx >= 1 && idx <= len(categories) {
		category := categories[idx-1]
		items, err := catalog.ListItems(category.Name)
		if err != nil {
			return Transition{Reply: TransientErrorReply}
		}
		session.State = model.StatePickItem
		session.Pending = model.PendingSelection{CategoryName: category.Name}
		return Transition{Reply: RenderItemsList(category.Name, items)}
	}

	return Transition{Reply: fmt.Sprintf("❌ Invalid category number. Please reply with a number between 1 and %d.", totalOptions)}
}

func handlePickDeal(catalog CatalogGateway, session *model.Session, text string) Transition {
	deals, err := catalog.ListDeals()
	if err != nil {
		return Transition{Reply: TransientErrorReply}
	}
	if text == "" {
		return Transition{Reply: RenderDealsMenu(deals)}
	}

	idx, err := strconv.Atoi(text)
	if err != nil {
		return Transition{Reply: "❌ Invalid input. Please reply with a deal number."}
	}
	if idx < 1 || idx > len(deals) {
		return Transition{Reply: "❌ Invalid deal number. Please pick a valid number."}
	}

	deal := deals[idx-1]
	itemNames := make([]string, 0, len(deal.Items))
	for _, it := range deal.Items {
		itemNames = append(itemNames, it.ItemName)
	}
	session.Cart = append(session.Cart, model.CartLine{
		Kind:      model.LineKindDeal,
		ItemName:  deal.Code,
		Size:      "Deal",
		Qty:       1,
		UnitPrice: deal.Price,
		LineTotal: deal.Price,
		DealCode:  deal.Code,
		DealItems: itemNames,
	})
	session.State = model.StateAddMore
	session.Pending = model.PendingSelection{}
	return Transition{Reply: RenderAddMore(session.Cart)}
}

func handlePickItem(catalog CatalogGateway, session *model.Session, text string) Transition {
	categoryName := session.Pending.CategoryName
	items, err := catalog.ListItems(categoryName)
	if err != nil {
		return Transition{Reply: TransientErrorReply}
	}
	if text == "" {
		return Transition{Reply: RenderItemsList(categoryName, items)}
	}

	idx, err := strconv.Atoi(text)
	if err != nil {
		return Transition{Reply: "❌ Invalid input. Please reply with an item number."}
	}
	if idx < 1 || idx > len(items) {
		return Transition{Reply: "❌ Invalid item number. Please pick a valid number."}
	}

	item := items[idx-1]
	if len(item.Sizes) > 0 {
		sizes := ItemSizeOptions(&item)
		session.State = model.StatePickSize
		session.Pending = model.PendingSelection{
			CategoryName: categoryName,
			MenuItemId:   item.ID,
			ItemName:     item.Name,
			Sizes:        sizes,
		}
		return Transition{Reply: RenderSizeMenu(item.Name, sizes)}
	}

	price := 0.0
	if item.Price != nil {
		price = *item.Price
	}
	session.State = model.StatePickQty
	session.Pending = model.PendingSelection{
		CategoryName: categoryName,
		MenuItemId:   item.ID,
		ItemName:     item.Name,
		Size:         "N/A",
		UnitPrice:    price,
	}
	return Transition{Reply: fmt.Sprintf("✅ *%s* — Rs. %s\n\nHow many would you like?\n(Reply with number: 1, 2, 3, etc.)", item.Name, Rs(price))}
}

func handlePickSize(catalog CatalogGateway, session *model.Session, text string) Transition {
	// Re-fetch so the ordinal is checked against the live size list.
	sizes := session.Pending.Sizes
	if item, err := catalog.GetItem(session.Pending.MenuItemId); err == nil && item != nil && len(item.Sizes) > 0 {
		sizes = ItemSizeOptions(item)
	}

	if text == "" {
		return Transition{Reply: RenderSizeMenu(session.Pending.ItemName, sizes)}
	}

	idx, err := strconv.Atoi(text)
	if err != nil {
		return Transition{Reply: "❌ Invalid input. Please reply with a size number."}
	}
	if idx < 1 || idx > len(sizes) {
		return Transition{Reply: fmt.Sprintf("❌ Invalid size number. Please pick between 1 and %d.", len(sizes))}
	}

	chosen := sizes[idx-1]
	session.State = model.StatePickQty
	session.Pending.Size = chosen.Label
	session.Pending.UnitPrice = chosen.Price
	session.Pending.Sizes = sizes
	return Transition{Reply: fmt.Sprintf("📦 *%s* (%s) — Rs. %s\n\nHow many would you like?\n(Reply with number: 1, 2, 3, etc.)", session.Pending.ItemName, chosen.Label, Rs(chosen.Price))}
}

func handlePickQty(session *model.Session, text string) Transition {
	if text == "" {
		return Transition{Reply: fmt.Sprintf("How many *%s* would you like?\n(Reply with number)", session.Pending.ItemName)}
	}

	qty, err := strconv.Atoi(text)
	if err != nil {
		return Transition{Reply: "❌ Invalid quantity. Please reply with a number."}
	}
	if qty <= 0 {
		return Transition{Reply: "❌ Quantity must be at least 1."}
	}
	if qty > 100 {
		return Transition{Reply: "❌ Maximum 100 items per selection."}
	}

	size := session.Pending.Size
	if size == "" {
		size = "N/A"
	}
	session.Cart = append(session.Cart, model.CartLine{
		Kind:      model.LineKindRegular,
		ItemName:  session.Pending.ItemName,
		Size:      size,
		Qty:       qty,
		UnitPrice: session.Pending.UnitPrice,
		LineTotal: LineTotal(session.Pending.UnitPrice, nil, qty),
	})
	session.State = model.StateAddMore
	session.Pending = model.PendingSelection{}
	return Transition{Reply: RenderAddMore(session.Cart)}
}

func handleAddMore(catalog CatalogGateway, session *model.Session, text string) Transition {
	if text == "1" || text == "yes" || text == "y" || text == "add more" {
		session.State = model.StateShowMenu
		session.Pending = model.PendingSelection{}
		return Transition{Reply: renderMainMenuOr(catalog)}
	}
	if text == "2" || text == "no" || text == "n" || text == "checkout" || text == "confirm" {
		session.State = model.StateAskName
		return Transition{Reply: "📝 Before confirming, please share your *name*.\nExample: `Ali Raza`"}
	}
	return Transition{Reply: RenderAddMore(session.Cart)}
}

func handleAskName(session *model.Session, text, textBody string) Transition {
	if text == "" {
		return Transition{Reply: "Please send your *name* to continue."}
	}
	session.CustomerName = strings.TrimSpace(textBody)
	session.State = model.StateAskAddress
	return Transition{Reply: "📍 Thanks!\nNow please send your *full address*.\nExample: `Chak #117 Dhanola, near Hafiz Pharmacy, Millat Road, Faisalabad`"}
}

func handleAskAddress(session *model.Session, text, textBody string) Transition {
	if text == "" {
		return Transition{Reply: "Please send your *delivery address* to continue."}
	}
	session.CustomerAddress = strings.TrimSpace(textBody)
	session.State = model.StateConfirmOrder
	return Transition{Reply: RenderOrderSummary(session.Cart, session.Phone, session.CustomerName, session.CustomerAddress)}
}

func handleConfirmOrder(session *model.Session, text string) Transition {
	if text == "1" || text == "yes" || text == "y" || text == "confirm" {
		totals := ComputeTotals(session.CartSubtotal(), 0)
		cart := make([]model.CartLine, len(session.Cart))
		copy(cart, session.Cart)
		return Transition{
			Finalize: &OrderDraft{
				Phone:         session.Phone,
				Name:          session.CustomerName,
				Address:       session.CustomerAddress,
				Notes:         session.DeliveryNotes,
				Language:      session.Language,
				PaymentMethod: "COD",
				Source:        constants.ORDER_SOURCE_CHAT,
				Cart:          cart,
				Totals:        totals,
			},
		}
	}
	if text == "2" || text == "no" || text == "n" || text == "cancel" {
		session.ResetToIdle()
		return Transition{Reply: "❌ Order cancelled.\n\nWould you like to start a new order? Reply `menu`."}
	}
	return Transition{Reply: RenderOrderSummary(session.Cart, session.Phone, session.CustomerName, session.CustomerAddress)}
}

func renderMainMenuOr(catalog CatalogGateway) string {
	categories, err := catalog.ListCategories()
	if err != nil {
		return TransientErrorReply
	}
	return RenderMainMenu(categories)
}
