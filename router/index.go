package router

import (
	"lomaro_whatsapp/handler"
	"lomaro_whatsapp/middleware"
	"lomaro_whatsapp/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Provider-facing endpoints. No auth here: the webhook is guarded by the
	// verify token, the flow endpoint by its encryption channel.
	whatsapp := app.Group("/whatsapp", logger.New())
	whatsapp.Get("/webhook", handler.VerifyWebhook)
	whatsapp.Post("/webhook", handler.ReceiveWebhook)
	whatsapp.Post("/flow", handler.ReceiveFlow)

	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)

	order := v1.Group("/order", logger.New())
	order.Get("/", middleware.Protected(), handler.GetAllOrders)
	order.Get("/:code", middleware.Protected(), validate.OrderCode(), handler.GetOrderByCode)
	order.Patch("/:code/status", middleware.Protected(), validate.OrderCode(), validate.UpdateOrderStatus(), handler.UpdateOrderStatus)

	order.Get("/feed/live", middleware.Protected(), websocket.New(handler.OrderFeedConnection))
}
