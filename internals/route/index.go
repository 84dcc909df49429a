package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	eventRoute "eventku_backend/internals/features/events/route"
	eventService "eventku_backend/internals/features/events/service"
	"eventku_backend/internals/features/payments/gateway"
	paymentRoute "eventku_backend/internals/features/payments/route"
	userRoute "eventku_backend/internals/features/users/route"
	webhookRoute "eventku_backend/internals/features/webhooks/route"
	authMiddleware "eventku_backend/internals/middlewares/auth"
)

// SetupRoutes wires the whole HTTP surface. Gateway callbacks are public,
// everything else sits behind JWT auth.
func SetupRoutes(app *fiber.App, db *gorm.DB, gw gateway.API, notifier eventService.ConfirmationNotifier) {
	BaseRoutes(app)

	webhookRoute.WebhookRoutes(app, db)

	api := app.Group("/api", authMiddleware.AuthMiddleware())

	eventRoute.EventRoutes(api, db, notifier)
	paymentRoute.PaymentRoutes(api, db, gw)
	userRoute.UserRoutes(api, db)
}
