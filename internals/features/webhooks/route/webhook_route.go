package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/webhooks/controller"
)

// WebhookRoutes mounts the public gateway callback endpoints. These must
// stay outside the JWT middleware.
func WebhookRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewWebhookController(db)

	hooks := router.Group("/webhooks/pagbank")
	hooks.Post("/payments", ctrl.PaymentNotification)
	hooks.Post("/checkouts", ctrl.CheckoutNotification)
}
