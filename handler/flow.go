package handler

import (
	"errors"
	"log"
	"lomaro_whatsapp/database"
	"lomaro_whatsapp/helper"

	"github.com/gofiber/fiber/v2"
)

// ReceiveFlow terminates the encrypted flow channel. Status codes are part of
// the protocol: 421 tells the provider to refresh its public key and retry,
// 432 would reject the signature, 200 carries an opaque base64 body.
func ReceiveFlow(c *fiber.Ctx) error {
	var env helper.FlowEnvelope
	if err := c.BodyParser(&env); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid payload"})
	}

	// Health checks arrive as plain JSON without the encrypted fields.
	if env.IsPing() {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"data": fiber.Map{"status": "active"},
		})
	}

	priv, err := helper.LoadFlowPrivateKey()
	if err != nil {
		log.Printf("[FLOW] private key unavailable: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "flow endpoint not configured"})
	}

	req, aesKey, iv, err := helper.DecryptFlowRequest(priv, &env)
	if err != nil {
		if errors.Is(err, helper.ErrFlowDecrypt) {
			// 421 → provider re-fetches the public key and re-encrypts.
			return c.SendStatus(421)
		}
		log.Printf("[FLOW] decrypt error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "decryption failed"})
	}

	router := helper.NewFlowRouter(helper.NewDBCatalog(database.DB), database.DB)
	resp, err := router.Process(req)
	if err != nil {
		// Past this point the channel keys are valid, so a logic failure is
		// reported in plaintext.
		log.Printf("[FLOW] screen %s action %s failed: %v", req.Screen, req.Action, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "flow processing failed"})
	}

	body, err := helper.EncryptFlowResponse(resp, aesKey, iv)
	if err != nil {
		log.Printf("[FLOW] encrypt error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "encryption failed"})
	}

	c.Set("Content-Type", "text/plain")
	return c.Status(fiber.StatusOK).SendString(body)
}
