package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pledgekit/pledgekit/app/controllers"
)

type WebhookRouter struct {
}

// InstallRouter registers the processor webhook endpoint. It stays outside
// the rate-limited API group so Stripe retries are never throttled away.
func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post("/webhooks/stripe", controllers.HandleStripeWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
