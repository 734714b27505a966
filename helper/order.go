package helper

import (
	"fmt"
	"log"
	"lomaro_whatsapp/constants"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/model"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// GenerateOrderCode builds the public order id: LOM-{yyyyMMddHHmmss}-{last 4
// digits of the phone, or 0000 when the phone has fewer than 4 digits}.
func GenerateOrderCode(phone string, now time.Time) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	suffix := "0000"
	if len(digits) >= 4 {
		suffix = digits[len(digits)-4:]
	}
	return fmt.Sprintf("LOM-%s-%s", now.Format("20060102150405"), suffix)
}

// StatusChangeAllowed gates manual status updates: cancelling an order is an
// admin action, everything else any active operator may do.
func StatusChangeAllowed(isAdmin bool, newStatus string) bool {
	if isAdmin {
		return true
	}
	return newStatus != constants.ORDER_STATUS_CANCELLED
}

// FinalizeOrder turns a completed draft into an immutable order row and
// kicks off the printer/notification side effects. The order is durable
// before any side effect runs; side-effect failures never fail the order.
func FinalizeOrder(db *gorm.DB, draft *OrderDraft) (*model.Order, error) {
	if db == nil {
		db = database.DB
	}

	order := &model.Order{
		PublicCode:      GenerateOrderCode(draft.Phone, time.Now()),
		CustomerName:    draft.Name,
		CustomerPhone:   draft.Phone,
		CustomerAddress: draft.Address,
		DeliveryNotes:   draft.Notes,
		Subtotal:        draft.Totals.Subtotal,
		Discount:        draft.Totals.Discount,
		Tax:             draft.Totals.Tax,
		TotalAmount:     draft.Totals.Total,
		PaymentMethod:   draft.PaymentMethod,
		PromoCode:       draft.PromoCode,
		Status:          constants.ORDER_STATUS_NEW,
		Source:          draft.Source,
		Language:        draft.Language,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = "COD"
	}
	if order.Language == "" {
		order.Language = model.LanguageEnglish
	}

	for _, cartLine := range draft.Cart {
		var line model.OrderLine
		copier.Copy(&line, &cartLine)
		line.DealItems = strings.Join(cartLine.DealItems, ", ")
		order.Lines = append(order.Lines, line)
	}

	if err := db.Create(order).Error; err != nil {
		// Same second + same last-4 collision: retry once with a random
		// suffix instead of losing the order.
		order.ID = 0
		order.PublicCode = fmt.Sprintf("LOM-%s-%s", time.Now().Format("20060102150405"), uuid.New().String()[:4])
		for i := range order.Lines {
			order.Lines[i].ID = 0
		}
		if err := db.Create(order).Error; err != nil {
			return nil, err
		}
	}

	log.Printf("[ORDER] created %s (%s, Rs. %s)", order.PublicCode, order.Source, Rs(order.TotalAmount))

	go DispatchOrderSideEffects(order)

	return order, nil
}

// DispatchOrderSideEffects fans out the fire-and-forget notifications:
// printer tickets, restaurant WhatsApp, operator email and the live feed.
// Each effect is isolated; one failing is logged and the rest still run.
func DispatchOrderSideEffects(order *model.Order) {
	SendToPrinters(order)
	SendRestaurantNotification(order)
	SendOrderEmail(order)
	PublishOrderEvent(order)
}
