package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"lomaro_whatsapp/config"
	"lomaro_whatsapp/model"
	"lomaro_whatsapp/utils"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

func orderItemsText(order *model.Order) string {
	lines := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		if line.Kind == model.LineKindDeal {
			lines = append(lines, fmt.Sprintf("- %s = Rs. %s", line.ItemName, Rs(line.LineTotal)))
		} else {
			lines = append(lines, fmt.Sprintf("- %dx %s (%s) = Rs. %s", line.Qty, line.ItemName, line.Size, Rs(line.LineTotal)))
		}
	}
	return strings.Join(lines, "\n")
}

// SendRestaurantNotification gửi chi tiết đơn về số WhatsApp của nhà hàng.
func SendRestaurantNotification(order *model.Order) {
	restaurantPhone := config.Config("RESTAURANT_PHONE")
	if restaurantPhone == "" {
		log.Println("[NOTIFY] RESTAURANT_PHONE not set")
		return
	}

	text := fmt.Sprintf(
		"📥 *New WhatsApp Order Received*\n\nOrder ID: %s\nName: %s\nPhone: %s\nAddress: %s\n\n*Items:*\n%s\n\n*Total: Rs. %s*\n💳 Payment: %s\nStatus: %s\nTime: %s",
		order.PublicCode,
		order.CustomerName,
		order.CustomerPhone,
		order.CustomerAddress,
		orderItemsText(order),
		Rs(order.TotalAmount),
		strings.ToUpper(order.PaymentMethod),
		order.Status,
		order.CreatedAt.UTC().Format("2006-01-02T15:04:05"),
	)

	if err := GetWhatsAppClient().SendText(restaurantPhone, text); err != nil {
		log.Printf("[NOTIFY] failed to send order notification to restaurant: %v", err)
	}
}

// SendOrderEmail gửi email đơn hàng cho vận hành, kèm QR mã đơn (async).
func SendOrderEmail(order *model.Order) {
	to := config.Config("ORDER_NOTIFY_EMAIL")
	if to == "" {
		return
	}

	host := config.Config("SMTP_HOST")
	portStr := config.Config("SMTP_PORT")
	username := config.Config("SMTP_USERNAME")
	password := config.Config("SMTP_PASSWORD")
	from := config.Config("SMTP_FROM")
	port, _ := strconv.Atoi(portStr)

	var body strings.Builder
	body.WriteString(fmt.Sprintf("<h2>Order %s</h2>", order.PublicCode))
	body.WriteString(fmt.Sprintf("<p>%s — %s<br>%s</p>", order.CustomerName, order.CustomerPhone, order.CustomerAddress))
	body.WriteString("<ul>")
	for _, line := range order.Lines {
		if line.Kind == model.LineKindDeal {
			body.WriteString(fmt.Sprintf("<li>%s = Rs. %s</li>", line.ItemName, Rs(line.LineTotal)))
		} else {
			body.WriteString(fmt.Sprintf("<li>%dx %s (%s) = Rs. %s</li>", line.Qty, line.ItemName, line.Size, Rs(line.LineTotal)))
		}
	}
	body.WriteString("</ul>")
	body.WriteString(fmt.Sprintf("<p><b>Total: Rs. %s</b> (%s)</p>", Rs(order.TotalAmount), strings.ToUpper(order.PaymentMethod)))

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "New order "+order.PublicCode)

	// QR mã đơn để quét tra cứu nhanh
	qrBytes, err := utils.GenerateQRCode(order.PublicCode, 256)
	if err == nil {
		m.Embed("order_qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, werr := w.Write(qrBytes)
			return werr
		}))
		body.WriteString(`<p><img src="cid:order_qr.png" alt="order qr"></p>`)
	}
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("[NOTIFY] failed to send order email: %v", err)
	}
}

// PublishOrderEvent đẩy đơn mới lên kênh redis cho dashboard realtime.
func PublishOrderEvent(order *model.Order) {
	if RedisClient == nil {
		return
	}
	payload, err := json.Marshal(order)
	if err != nil {
		log.Printf("[NOTIFY] failed to marshal order event: %v", err)
		return
	}
	if err := RedisClient.Publish(context.Background(), OrdersChannel, payload).Err(); err != nil {
		log.Printf("[NOTIFY] failed to publish order event: %v", err)
	}
}
