package helper

import (
	"fmt"
	"lomaro_whatsapp/model"
	"strings"
)

const TransientErrorReply = "Sorry, something went wrong while preparing your reply. Please try again later."

// DefaultResponse là lời chào khi chưa có luồng đặt hàng nào đang chạy.
func DefaultResponse(language string) string {
	if language == model.LanguageUrdu {
		return "👋 خوش آمدید!\n\nآرڈر شروع کرنے کے لیے جواب دیں:\n`menu`\n\n🍕 Lomaro Pizza\n📞 0326-6263343\n*Where Every Slice Feels Special*"
	}
	return "👋 Hi there!\n\nTo start ordering, reply:\n`menu`\n\n🍕 Lomaro Pizza\n📞 0326-6263343\n*Where Every Slice Feels Special*"
}

func RenderLanguagePrompt() string {
	return "🌐 *Select your language / اپنی زبان منتخب کریں*\n\n1. English\n2. اردو\n\nReply with `1` or `2`."
}

func RenderMainMenu(categories []Category) string {
	lines := []string{
		"🍕 *Welcome to Lomaro Pizza!* 🍕",
		"*Where Every Slice Feels Special*",
		"",
		"📋 *Select a Category:*",
		"",
	}
	for i, category := range categories {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, category.Name))
	}
	lines = append(lines, fmt.Sprintf("%d. 🎁 Special Deals", len(categories)+1))
	lines = append(lines,
		"",
		"Reply with category number (e.g., `1` for first category)",
	)
	return strings.Join(lines, "\n")
}

func RenderDealsMenu(deals []model.Deal) string {
	lines := []string{"🎁 *Special Deals* 🎁", ""}

	if len(deals) == 0 {
		lines = append(lines, "No deals available right now.", "", "Reply `menu` to go back.")
		return strings.Join(lines, "\n")
	}

	for i, deal := range deals {
		itemNames := make([]string, 0, len(deal.Items))
		for _, it := range deal.Items {
			itemNames = append(itemNames, it.ItemName)
		}
		itemsStr := "Multiple items"
		if len(itemNames) > 0 {
			itemsStr = strings.Join(itemNames, ", ")
		}
		lines = append(lines,
			fmt.Sprintf("%d. *%s* — Rs. %s", i+1, deal.Code, Rs(deal.Price)),
			fmt.Sprintf("   📦 Includes: %s", itemsStr),
			"",
		)
	}
	lines = append(lines,
		"Reply with deal number (e.g., `1` for first deal)",
		"Or reply `menu` to go back to main menu.",
	)
	return strings.Join(lines, "\n")
}

func RenderItemsList(categoryName string, items []model.MenuItem) string {
	lines := []string{fmt.Sprintf("*%s*", categoryName), ""}

	if len(items) == 0 {
		lines = append(lines, "No items available in this category.", "", "Reply `menu` to go back.")
		return strings.Join(lines, "\n")
	}

	for i, item := range items {
		if len(item.Sizes) > 0 {
			lines = append(lines, fmt.Sprintf("%d. %s — from Rs. %s", i+1, item.Name, Rs(item.Sizes[0].Price)))
		} else if item.Price != nil {
			lines = append(lines, fmt.Sprintf("%d. %s — Rs. %s", i+1, item.Name, Rs(*item.Price)))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s — Rs. N/A", i+1, item.Name))
		}
	}
	lines = append(lines,
		"",
		"Reply with item number (e.g., `1` for first item)",
		"Or reply `menu` to go back to main menu.",
	)
	return strings.Join(lines, "\n")
}

func RenderSizeMenu(itemName string, sizes []model.SizePrice) string {
	lines := []string{fmt.Sprintf("*%s*", itemName), "", "*Select Size:*", ""}
	for i, size := range sizes {
		lines = append(lines, fmt.Sprintf("%d. %s — Rs. %s", i+1, size.Label, Rs(size.Price)))
	}
	lines = append(lines, "", "Reply with size number (e.g., `1` for first size)")
	return strings.Join(lines, "\n")
}

func RenderAddMore(cart []model.CartLine) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Your Cart:*\n\n")
	total := 0.0
	for _, line := range cart {
		if line.Kind == model.LineKindDeal {
			sb.WriteString(fmt.Sprintf("• %s = Rs. %s\n", line.ItemName, Rs(line.LineTotal)))
		} else {
			sb.WriteString(fmt.Sprintf("• %dx %s (%s) = Rs. %s\n", line.Qty, line.ItemName, line.Size, Rs(line.LineTotal)))
		}
		total += line.LineTotal
	}
	sb.WriteString(fmt.Sprintf("\n*Subtotal: Rs. %s*\n\n", Rs(total)))
	sb.WriteString("Would you like to add more items?\n1️⃣ Yes, add more\n2️⃣ No, proceed to checkout")
	return sb.String()
}

func RenderOrderSummary(cart []model.CartLine, phone, customerName, customerAddress string) string {
	lines := []string{"📋 *Order Summary:*", ""}

	total := 0.0
	for _, line := range cart {
		if line.Kind == model.LineKindDeal {
			lines = append(lines,
				fmt.Sprintf("• %s", line.ItemName),
				fmt.Sprintf("  Rs. %s", Rs(line.LineTotal)),
			)
		} else {
			lines = append(lines,
				fmt.Sprintf("• %dx %s (%s)", line.Qty, line.ItemName, line.Size),
				fmt.Sprintf("  Rs. %s × %d = Rs. %s", Rs(line.UnitPrice), line.Qty, Rs(line.LineTotal)),
			)
		}
		total += line.LineTotal
	}

	lines = append(lines, "")
	if customerName != "" {
		lines = append(lines, fmt.Sprintf("👤 Name: %s", customerName))
	}
	if customerAddress != "" {
		lines = append(lines, fmt.Sprintf("📍 Address: %s", customerAddress))
	}
	lines = append(lines,
		fmt.Sprintf("📱 Phone: %s", phone),
		"",
		fmt.Sprintf("*Total: Rs. %s*", Rs(total)),
		"",
		"Is this correct?",
		"1️⃣ Yes, confirm order",
		"2️⃣ No, cancel",
	)
	return strings.Join(lines, "\n")
}

// ReplyButtons returns the quick-reply labels for states that present a fixed
// two-way choice. The button ids are "1" and "2", the same ordinals the text
// parser accepts, so tapped replies and typed replies take the same path.
// Nil means the state has no buttons and the reply goes out as plain text.
func ReplyButtons(state string) []string {
	switch state {
	case model.StateAddMore:
		return []string{"Yes, add more", "No, checkout"}
	case model.StateConfirmOrder:
		return []string{"Yes, confirm", "No, cancel"}
	}
	return nil
}

func RenderOrderConfirmed(order *model.Order) string {
	return fmt.Sprintf(
		"✅ *Order Confirmed!*\n\nOrder ID: `%s`\nTotal: Rs. %s\n\n📍 Address: %s\n⏱️ Estimated Time: 30-40 minutes\n\nThank you for ordering from Lomaro Pizza! 🍕",
		order.PublicCode, Rs(order.TotalAmount), order.CustomerAddress,
	)
}
