package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/webhooks/dto"
	"eventku_backend/internals/features/webhooks/service"
	helper "eventku_backend/internals/helpers"
)

type WebhookController struct {
	Service *service.WebhookService
}

func NewWebhookController(db *gorm.DB) *WebhookController {
	return &WebhookController{Service: service.NewWebhookService(db)}
}

// PaymentNotification handles gateway charge notifications. Always answers
// 200 on applied or already-settled state so the gateway stops redelivering.
func (ctrl *WebhookController) PaymentNotification(c *fiber.Ctx) error {
	var body dto.PaymentWebhook
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid webhook body")
	}

	if err := ctrl.Service.HandlePaymentWebhook(c.Context(), &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", nil)
}

// CheckoutNotification handles gateway checkout lifecycle notifications.
func (ctrl *WebhookController) CheckoutNotification(c *fiber.Ctx) error {
	var body dto.CheckoutWebhook
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid webhook body")
	}

	if err := ctrl.Service.HandleCheckoutWebhook(c.Context(), &body); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "ok", nil)
}
