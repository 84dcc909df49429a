package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/payments/controller"
	"eventku_backend/internals/features/payments/gateway"
)

// PaymentRoutes mounts the checkout and settlement endpoints. The router
// passed in is already JWT-protected.
func PaymentRoutes(router fiber.Router, db *gorm.DB, gw gateway.API) {
	ctrl := controller.NewPaymentController(db, gw)

	payments := router.Group("/payments")

	payments.Post("/checkout", ctrl.CreateCheckout)
	payments.Post("/:id/refund", ctrl.Refund)
	payments.Patch("/:id/status", ctrl.UpdateStatus)

	payments.Get("/me", ctrl.MyPayments)
	payments.Get("/me/events", ctrl.MyEvents)
	payments.Get("/event/:event_id", ctrl.EventPayments)
}
