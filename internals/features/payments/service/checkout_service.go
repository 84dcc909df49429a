package service

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/configs"
	eventModel "eventku_backend/internals/features/events/model"
	"eventku_backend/internals/features/payments/gateway"
	"eventku_backend/internals/features/payments/model"
	userModel "eventku_backend/internals/features/users/model"
)

/* =======================================================================
   Checkout orchestrator

   CreateOrReuseCheckout spans a gateway call and therefore cannot be one
   database transaction: phase 1 reads and decides, phase 2 talks to the
   gateway without holding any lock, phase 3 commits the new generation.
   The gap between phases is a tolerated race: whichever concurrent request
   commits last invalidates the other generation.
======================================================================= */

type CheckoutResult struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

type CheckoutService struct {
	DB      *gorm.DB
	Gateway gateway.API
}

func NewCheckoutService(db *gorm.DB, gw gateway.API) *CheckoutService {
	return &CheckoutService{DB: db, Gateway: gw}
}

func (s *CheckoutService) CreateOrReuseCheckout(ctx context.Context, userID, eventID uuid.UUID, roleIDs []uuid.UUID) (*CheckoutResult, error) {
	if len(roleIDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No role registrations provided")
	}

	/* ---------- phase 1: read + decide ---------- */

	var event eventModel.Event
	if err := s.DB.WithContext(ctx).First(&event, "event_id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return nil, err
	}
	var user userModel.User
	if err := s.DB.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, err
	}

	var payments []model.Payment
	if err := s.DB.WithContext(ctx).Preload("Checkouts").
		Where("payment_user_id = ? AND payment_event_id = ? AND payment_role_id IN ?", userID, eventID, roleIDs).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "No registrations found for payment")
	}

	var unpaid []model.Payment
	for _, p := range payments {
		if !p.IsPaid() {
			unpaid = append(unpaid, p)
		}
	}
	if len(unpaid) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "All items are already paid")
	}

	// An ACTIVE checkout the gateway no longer considers payable must be
	// written through before any reuse decision.
	if err := s.writeThroughStaleCheckouts(ctx, unpaid); err != nil {
		return nil, err
	}

	decision := EvaluateReuse(unpaid, time.Now(), configs.CheckoutReuseWindow)
	unpaidIDs := make([]uuid.UUID, 0, len(unpaid))
	for _, p := range unpaid {
		unpaidIDs = append(unpaidIDs, p.PaymentID)
	}

	if decision.Reusable {
		reusable, err := s.confirmExclusive(ctx, decision.ExternalID, unpaidIDs)
		if err != nil {
			return nil, err
		}
		if reusable {
			if err := s.DB.WithContext(ctx).Model(&model.Payment{}).
				Where("payment_id IN ?", unpaidIDs).
				Updates(map[string]interface{}{
					"payment_status": model.PaymentStatusWaiting,
					"payment_method": model.PaymentMethodOther,
				}).Error; err != nil {
				return nil, err
			}
			return &CheckoutResult{Message: "Checkout already exists", Link: decision.Link}, nil
		}
		// Shared with payments outside this cart: supersede instead.
		decision.InvalidateIDs = []string{decision.ExternalID}
	}

	lines, err := s.loadLines(ctx, unpaid)
	if err != nil {
		return nil, err
	}
	payload, err := BuildCheckoutRequest(&user, &event, lines, configs.BackendURL, configs.FrontendURL, time.Now())
	if err != nil {
		return nil, err
	}

	/* ---------- phase 2: gateway call, no locks held ---------- */

	created, err := s.Gateway.CreateCheckout(ctx, payload)
	if err != nil {
		return nil, gatewayError(err)
	}
	link := created.PayLink()
	if link == "" {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gateway checkout has no payment link")
	}

	// Best effort: superseded sessions also die on the gateway side, but
	// local INACTIVE rows are what actually retires them.
	for _, checkoutID := range decision.InvalidateIDs {
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			if err := s.Gateway.InactivateCheckout(ctx, id); err != nil {
				log.Printf("[WARN] inactivate checkout %s on gateway: %v", id, err)
			}
		}(checkoutID)
	}

	/* ---------- phase 3: commit the new generation ---------- */

	total := CartTotal(lines)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(decision.InvalidateIDs) > 0 {
			if err := tx.Model(&model.PaymentCheckout{}).
				Where("payment_checkout_checkout_id IN ? AND payment_checkout_status = ?",
					decision.InvalidateIDs, model.CheckoutStatusActive).
				Update("payment_checkout_status", model.CheckoutStatusInactive).Error; err != nil {
				return err
			}
		}

		for _, paymentID := range unpaidIDs {
			if err := tx.Create(&model.PaymentCheckout{
				PaymentCheckoutPaymentID:   paymentID,
				PaymentCheckoutCheckoutID:  created.ID,
				PaymentCheckoutReferenceID: payload.ReferenceID,
				PaymentCheckoutLink:        link,
				PaymentCheckoutAmount:      total,
				PaymentCheckoutStatus:      model.CheckoutStatusActive,
			}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Payment{}).
			Where("payment_id IN ?", unpaidIDs).
			Updates(map[string]interface{}{
				"payment_status": model.PaymentStatusWaiting,
				"payment_method": model.PaymentMethodOther,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Message: "checkout created", Link: link}, nil
}

// writeThroughStaleCheckouts asks the gateway about every ACTIVE checkout on
// the unpaid set. A charge that left WAITING is persisted (payment updated,
// checkout retired) and the whole request is rejected so the caller reloads.
// A 404 resource_not_found means no charge was ever created: still reusable.
func (s *CheckoutService) writeThroughStaleCheckouts(ctx context.Context, unpaid []model.Payment) error {
	for i := range unpaid {
		for _, checkout := range unpaid[i].ActiveCheckouts() {
			charges, err := s.Gateway.ListCharges(ctx, checkout.PaymentCheckoutReferenceID)
			if err != nil {
				if gateway.IsNotFound(err) {
					continue
				}
				log.Printf("[ERROR] charge status for reference %s: %v", checkout.PaymentCheckoutReferenceID, err)
				return gatewayError(err)
			}

			charge := SelectCharge(charges)
			if charge == nil {
				continue
			}
			status := MapChargeStatus(charge.Status)
			if status == model.PaymentStatusWaiting {
				continue
			}

			method := MapChargeMethod(charge.PaymentMethod.Type)
			payload := ChargePayload(charge)
			externalID := checkout.PaymentCheckoutCheckoutID
			paymentID := checkout.PaymentCheckoutPaymentID

			if err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(&model.PaymentCheckout{}).
					Where("payment_checkout_checkout_id = ?", externalID).
					Update("payment_checkout_status", model.CheckoutStatusInactive).Error; err != nil {
					return err
				}
				return tx.Model(&model.Payment{}).
					Where("payment_id = ?", paymentID).
					Updates(map[string]interface{}{
						"payment_status":  status,
						"payment_method":  method,
						"payment_payload": payload,
					}).Error
			}); err != nil {
				return err
			}

			return fiber.NewError(fiber.StatusBadRequest, "Some items have payments in progress, please refresh the page")
		}
	}
	return nil
}

// confirmExclusive verifies no payment outside the cart holds an ACTIVE row
// on the candidate external checkout id.
func (s *CheckoutService) confirmExclusive(ctx context.Context, externalID string, unpaidIDs []uuid.UUID) (bool, error) {
	var others int64
	err := s.DB.WithContext(ctx).Model(&model.PaymentCheckout{}).
		Where("payment_checkout_checkout_id = ? AND payment_checkout_status = ? AND payment_checkout_payment_id NOT IN ?",
			externalID, model.CheckoutStatusActive, unpaidIDs).
		Count(&others).Error
	if err != nil {
		return false, err
	}
	return others == 0, nil
}

func (s *CheckoutService) loadLines(ctx context.Context, unpaid []model.Payment) ([]CheckoutLine, error) {
	seatIDs := make([]uuid.UUID, 0, len(unpaid))
	for _, p := range unpaid {
		seatIDs = append(seatIDs, p.PaymentEventUserRole)
	}
	var seats []eventModel.EventUserRole
	if err := s.DB.WithContext(ctx).Preload("Role").Preload("Discount").
		Where("event_user_role_id IN ?", seatIDs).
		Find(&seats).Error; err != nil {
		return nil, err
	}
	lines := make([]CheckoutLine, 0, len(seats))
	for i := range seats {
		lines = append(lines, NewCheckoutLine(&seats[i]))
	}
	return lines, nil
}

// gatewayError keeps the gateway's status and body visible to the caller.
func gatewayError(err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return fe
	}
	if apiErr, ok := err.(*gateway.APIError); ok {
		return fiber.NewError(fiber.StatusBadGateway, apiErr.Error()+": "+apiErr.Body)
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}
