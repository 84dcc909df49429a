package service

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/payments/model"
	paymentService "eventku_backend/internals/features/payments/service"
	"eventku_backend/internals/features/webhooks/dto"
)

/* =======================================================================
   Webhook ingestion

   Gateways redeliver: both handlers must converge to the same end state no
   matter how often or in what order notifications arrive. They share the
   settlement writes with the reconciliation poller.
======================================================================= */

type WebhookService struct {
	Payments *paymentService.PaymentService
}

func NewWebhookService(db *gorm.DB) *WebhookService {
	return &WebhookService{Payments: paymentService.NewPaymentService(db)}
}

// HandlePaymentWebhook applies the decisive charge of a notification to
// every payment sharing its checkout reference.
func (s *WebhookService) HandlePaymentWebhook(ctx context.Context, body *dto.PaymentWebhook) error {
	charges := body.AllCharges()
	charge := paymentService.SelectCharge(charges)
	if charge == nil {
		log.Printf("[WARN] payment webhook without charges, ignoring")
		return nil
	}
	if charge.ReferenceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Charge has no reference_id")
	}

	status := paymentService.MapChargeStatus(charge.Status)
	method := paymentService.MapChargeMethod(charge.PaymentMethod.Type)

	err := s.Payments.ApplyChargeSettlement(ctx, charge.ReferenceID, status, method,
		paymentService.ChargePayload(charge))
	if err != nil {
		// A reference we never issued is not a delivery failure worth a retry.
		if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusNotFound {
			log.Printf("[WARN] payment webhook for unknown reference %s", charge.ReferenceID)
			return nil
		}
		return err
	}
	log.Printf("[INFO] payment webhook: reference %s -> %s", charge.ReferenceID, status)
	return nil
}

// HandleCheckoutWebhook records a gateway-side checkout lifecycle change.
func (s *WebhookService) HandleCheckoutWebhook(ctx context.Context, body *dto.CheckoutWebhook) error {
	if body.ID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Checkout webhook has no id")
	}

	localStatus := paymentService.MapCheckoutStatus(body.Status)
	if localStatus == model.CheckoutStatusActive {
		// Creation echoes carry no new state.
		return nil
	}

	err := s.Payments.ApplyCheckoutStatus(ctx, body.ID, localStatus)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusNotFound {
			log.Printf("[WARN] checkout webhook for unknown checkout %s", body.ID)
			return nil
		}
		return err
	}
	log.Printf("[INFO] checkout webhook: %s -> %s", body.ID, localStatus)
	return nil
}
