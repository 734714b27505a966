package helper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"lomaro_whatsapp/config"
	"net/http"
	"strings"
	"sync"
	"time"
)

// WhatsAppClient gọi WhatsApp Cloud API (Graph API) để gửi tin nhắn đi.
type WhatsAppClient struct {
	baseURL       string
	phoneNumberId string
	token         string
	http          *http.Client
}

var (
	waClient     *WhatsAppClient
	waClientOnce sync.Once
)

func GetWhatsAppClient() *WhatsAppClient {
	waClientOnce.Do(func() {
		baseURL := config.Config("WHATSAPP_GRAPH_BASE_URL")
		if baseURL == "" {
			baseURL = "https://graph.facebook.com/v20.0"
		}
		waClient = &WhatsAppClient{
			baseURL:       strings.TrimRight(baseURL, "/"),
			phoneNumberId: config.Config("WHATSAPP_PHONE_NUMBER_ID"),
			token:         config.Config("WHATSAPP_ACCESS_TOKEN"),
			http:          &http.Client{Timeout: 10 * time.Second},
		}
	})
	return waClient
}

func (c *WhatsAppClient) post(payload map[string]any) error {
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberId)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp api status %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}

// SendText gửi tin nhắn văn bản thường. Cloud API muốn số không có dấu '+'.
func (c *WhatsAppClient) SendText(toPhone, text string) error {
	return c.post(map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                strings.TrimPrefix(toPhone, "+"),
		"type":              "text",
		"text": map[string]any{
			"preview_url": false,
			"body":        text,
		},
	})
}

// SendButtons sends up to 3 reply buttons. Falls back to the plain numbered
// text when the interactive call is rejected, so the conversation keeps
// working on clients without button support.
func (c *WhatsAppClient) SendButtons(toPhone, body string, buttons []string) error {
	if len(buttons) == 0 || len(buttons) > 3 {
		return c.SendText(toPhone, body)
	}

	items := make([]map[string]any, 0, len(buttons))
	for i, label := range buttons {
		items = append(items, map[string]any{
			"type": "reply",
			"reply": map[string]any{
				"id":    fmt.Sprintf("%d", i+1),
				"title": label,
			},
		})
	}

	err := c.post(map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                strings.TrimPrefix(toPhone, "+"),
		"type":              "interactive",
		"interactive": map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"buttons": items},
		},
	})
	if err != nil {
		log.Printf("[WHATSAPP] interactive send failed, falling back to text: %v", err)
		return c.SendText(toPhone, body)
	}
	return nil
}
