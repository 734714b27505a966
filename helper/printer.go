package helper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"lomaro_whatsapp/config"
	"lomaro_whatsapp/model"
	"net/http"
	"time"
)

// PrinterPayload khớp định dạng InvoiceRequest của máy in nhiệt.
type PrinterPayload struct {
	RestaurantName string            `json:"restaurant_name"`
	AddressLine1   string            `json:"address_line1"`
	AddressLine2   string            `json:"address_line2"`
	AddressLine3   string            `json:"address_line3"`
	Phone          string            `json:"phone"`
	Meta           PrinterMeta       `json:"meta"`
	Customer       PrinterCustomer   `json:"customer"`
	Items          []PrinterItem     `json:"items"`
	Totals         PrinterTotals     `json:"totals"`
}

type PrinterMeta struct {
	Type  string `json:"type"`
	SrNo  uint   `json:"sr_no"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Rider string `json:"rider,omitempty"`
}

type PrinterCustomer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Mobile  string `json:"mobile"`
}

type PrinterItem struct {
	Name   string  `json:"name"`
	Qty    int     `json:"qty"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

type PrinterTotals struct {
	TotalItems  int     `json:"total_items"`
	TotalAmount float64 `json:"total_amount"`
	NetAmount   float64 `json:"net_amount"`
}

// BuildPrinterPayload dựng phiếu in từ đơn hàng đã chốt.
func BuildPrinterPayload(order *model.Order) PrinterPayload {
	now := time.Now().UTC()

	items := make([]PrinterItem, 0, len(order.Lines))
	totalItems := 0
	totalAmount := 0.0
	for _, line := range order.Lines {
		name := line.ItemName
		if line.Kind == model.LineKindRegular {
			name = fmt.Sprintf("%s (%s)", line.ItemName, line.Size)
		}
		items = append(items, PrinterItem{
			Name:   name,
			Qty:    line.Qty,
			Rate:   line.UnitPrice,
			Amount: line.LineTotal,
		})
		totalItems += line.Qty
		totalAmount += line.LineTotal
	}

	return PrinterPayload{
		RestaurantName: "Lomaro Pizza",
		AddressLine1:   "Chak 117 Dhanola, Main Stop,",
		AddressLine2:   "Opp Hafiz Pharmacy",
		AddressLine3:   "Millat Road, Faisalabad.",
		Phone:          "PH: 0326-6263343",
		Meta: PrinterMeta{
			Type: "Home Delivery",
			SrNo: order.ID,
			Date: now.Format("02-01-06"),
			Time: now.Format("15:04:05"),
		},
		Customer: PrinterCustomer{
			Name:    order.CustomerName,
			Address: order.CustomerAddress,
			Mobile:  order.CustomerPhone,
		},
		Items: items,
		Totals: PrinterTotals{
			TotalItems:  totalItems,
			TotalAmount: totalAmount,
			NetAmount:   order.TotalAmount,
		},
	}
}

// SendToPrinters gửi phiếu cho máy in bếp và máy in khách.
// Best-effort: lỗi chỉ log, không chặn luồng chat.
func SendToPrinters(order *model.Order) {
	baseURL := config.Config("PRINTER_API_BASE_URL")
	if baseURL == "" {
		log.Println("[PRINTER] PRINTER_API_BASE_URL is not set; skipping printer calls.")
		return
	}

	payload := BuildPrinterPayload(order)
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[PRINTER] failed to marshal payload for %s: %v", order.PublicCode, err)
		return
	}

	client := &http.Client{Timeout: 10 * time.Second}
	for _, path := range []string{"/print-kitchen-order", "/print-customer-slip"} {
		resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("[PRINTER] failed to send %s to %s: %v", order.PublicCode, path, err)
			continue
		}
		resp.Body.Close()
		log.Printf("[PRINTER] order %s sent to %s", order.PublicCode, path)
	}
}
