package handler

import (
	"context"
	"errors"
	"log"
	"lomaro_whatsapp/config"
	"lomaro_whatsapp/constants"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/helper"
	"lomaro_whatsapp/model"
	"lomaro_whatsapp/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// webhookPayload mirrors the Graph API delivery shape. Only text bodies are
// consumed; everything else gets a fallback reply.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					Id   string `json:"id"`
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// VerifyWebhook answers the provider's subscription handshake with the plain
// challenge string.
func VerifyWebhook(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == config.Config("WHATSAPP_WEBHOOK_VERIFY_TOKEN") {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return utils.ErrorResponse(c, fiber.StatusForbidden, constants.INVALID_VERIFY_TOKEN, errors.New("verify token mismatch"))
}

// ReceiveWebhook is the free-text conversation entry point. It always
// acknowledges with 200 — a non-2xx would make the provider redeliver the
// same message and replay the turn.
func ReceiveWebhook(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("[WEBHOOK] unparseable payload: %v", err)
		return c.SendStatus(fiber.StatusOK)
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				handleInboundMessage(msg.From, msg.Type, msg.Text.Body, msg.Id)
			}
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

func handleInboundMessage(fromPhone, msgType, body, wamId string) {
	if fromPhone == "" {
		return
	}

	// Audit log first, reply second.
	audit := model.InboundMessage{
		FromPhone: fromPhone,
		MsgType:   msgType,
		Body:      body,
		WamId:     wamId,
	}
	if err := database.DB.Create(&audit).Error; err != nil {
		log.Printf("[WEBHOOK] failed to store inbound message from %s: %v", fromPhone, err)
	}

	wa := helper.GetWhatsAppClient()

	if msgType != "text" || strings.TrimSpace(body) == "" {
		if err := wa.SendText(fromPhone, "Please type a message to order. Send *menu* to see our menu."); err != nil {
			log.Printf("[WEBHOOK] failed to send fallback to %s: %v", fromPhone, err)
		}
		return
	}

	reply, state := runConversationTurn(fromPhone, body)
	if reply == "" {
		return
	}
	// Yes/no states get quick-reply buttons; SendButtons degrades to plain
	// text on its own when the interactive send is rejected.
	if buttons := helper.ReplyButtons(state); buttons != nil {
		if err := wa.SendButtons(fromPhone, reply, buttons); err != nil {
			log.Printf("[WEBHOOK] failed to send reply to %s: %v", fromPhone, err)
		}
		return
	}
	if err := wa.SendText(fromPhone, reply); err != nil {
		log.Printf("[WEBHOOK] failed to send reply to %s: %v", fromPhone, err)
	}
}

// runConversationTurn advances one turn under the per-phone lock and returns
// the text to send back plus the state the session landed in.
func runConversationTurn(fromPhone, body string) (string, string) {
	unlock := helper.LockPhone(fromPhone)
	defer unlock()

	ctx := context.Background()
	store := helper.NewRedisSessionStore(helper.RedisClient)
	catalog := helper.NewDBCatalog(database.DB)

	session, err := store.Get(ctx, fromPhone)
	if err != nil {
		log.Printf("[WEBHOOK] failed to load session for %s: %v", fromPhone, err)
		return helper.TransientErrorReply, ""
	}

	transition := helper.HandleUserMessage(catalog, session, body)
	reply := transition.Reply

	if transition.Finalize != nil {
		order, err := helper.FinalizeOrder(nil, transition.Finalize)
		if err != nil {
			log.Printf("[WEBHOOK] failed to finalize order for %s: %v", fromPhone, err)
			// Session stays in confirm so the customer can answer again.
			reply = helper.TransientErrorReply
		} else {
			reply = helper.RenderOrderConfirmed(order)
			session.ResetToIdle()
		}
	}

	if err := store.Save(ctx, fromPhone, session); err != nil {
		log.Printf("[WEBHOOK] failed to save session for %s: %v", fromPhone, err)
		return helper.TransientErrorReply, ""
	}

	return reply, session.State
}
