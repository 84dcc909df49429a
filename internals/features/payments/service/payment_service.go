package service

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	eventModel "eventku_backend/internals/features/events/model"
	"eventku_backend/internals/features/payments/model"
)

/* =======================================================================
   Payment settlement

   Every write here is idempotent: webhooks and the reconciliation poller
   report the same charge through the same functions, and a replay of an
   already-applied status is a no-op. PAID is terminal for automated
   writes; only an explicit refund moves a payment past it.
======================================================================= */

type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// ApplyChargeSettlement records a charge outcome for every payment that
// shares the checkout reference. Payments already PAID are left untouched.
func (s *PaymentService) ApplyChargeSettlement(ctx context.Context, referenceID, status, method string, payload datatypes.JSONMap) error {
	if !model.ValidPaymentStatus(status) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown payment status: "+status)
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var checkouts []model.PaymentCheckout
		if err := tx.Where("payment_checkout_reference_id = ?", referenceID).
			Find(&checkouts).Error; err != nil {
			return err
		}
		if len(checkouts) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No checkout found for reference "+referenceID)
		}

		paymentIDs := make([]uuid.UUID, 0, len(checkouts))
		for _, c := range checkouts {
			paymentIDs = append(paymentIDs, c.PaymentCheckoutPaymentID)
		}

		var payments []model.Payment
		if err := tx.Where("payment_id IN ?", paymentIDs).Find(&payments).Error; err != nil {
			return err
		}
		targetIDs := make([]uuid.UUID, 0, len(payments))
		for i := range payments {
			if SettlementAllowed(payments[i].PaymentStatus) {
				targetIDs = append(targetIDs, payments[i].PaymentID)
			}
		}

		if len(targetIDs) > 0 {
			values := map[string]interface{}{
				"payment_status": status,
				"payment_method": method,
			}
			if payload != nil {
				values["payment_payload"] = payload
			}
			// The status guard is repeated in SQL against a concurrent
			// settlement landing between the read and this update.
			if err := tx.Model(&model.Payment{}).
				Where("payment_id IN ? AND payment_status <> ?", targetIDs, model.PaymentStatusPaid).
				Updates(values).Error; err != nil {
				return err
			}
		}

		// A settled charge retires the session regardless of direction.
		if status != model.PaymentStatusWaiting && status != model.PaymentStatusInAnalysis {
			if err := tx.Model(&model.PaymentCheckout{}).
				Where("payment_checkout_reference_id = ? AND payment_checkout_status = ?",
					referenceID, model.CheckoutStatusActive).
				Update("payment_checkout_status", model.CheckoutStatusInactive).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyCheckoutStatus records a gateway-side checkout lifecycle change
// (expired, canceled) against the local session row.
func (s *PaymentService) ApplyCheckoutStatus(ctx context.Context, externalID, localStatus string) error {
	res := s.DB.WithContext(ctx).Model(&model.PaymentCheckout{}).
		Where("payment_checkout_checkout_id = ? AND payment_checkout_status <> ?", externalID, localStatus).
		Update("payment_checkout_status", localStatus)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&model.PaymentCheckout{}).
			Where("payment_checkout_checkout_id = ?", externalID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Checkout not found: "+externalID)
		}
	}
	return nil
}

// RefundPayment moves a PAID payment to REFUNDED. The conditional update is
// the guard: anything not currently PAID is not refundable.
func (s *PaymentService) RefundPayment(ctx context.Context, paymentID uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Payment{}).
			Where("payment_id = ? AND payment_status = ?", paymentID, model.PaymentStatusPaid).
			Update("payment_status", model.PaymentStatusRefunded)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current model.Payment
			if err := tx.First(&current, "payment_id = ?", paymentID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusNotFound, "Payment not found")
				}
				return err
			}
			if !RefundAllowed(current.PaymentStatus) {
				return fiber.NewError(fiber.StatusBadRequest, "Only paid payments can be refunded")
			}
			return fiber.NewError(fiber.StatusConflict, "Payment changed concurrently, please retry")
		}
		return tx.First(&payment, "payment_id = ?", paymentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

type ManualStatusUpdate struct {
	Status      string
	Method      string
	EvidenceRef string
	DiscountID  *uuid.UUID
}

// UpdatePaymentStatus is the operator override for cash and out-of-band
// settlements. Once PAID, only REFUNDED is accepted; every other transition
// goes through the gateway flow.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, paymentID uuid.UUID, upd ManualStatusUpdate) (*model.Payment, error) {
	if !model.ValidPaymentStatus(upd.Status) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unknown payment status: "+upd.Status)
	}
	if upd.Method != "" && !model.ValidPaymentMethod(upd.Method) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unknown payment method: "+upd.Method)
	}

	var payment model.Payment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "Payment not found")
			}
			return err
		}
		if !ManualTransitionAllowed(payment.PaymentStatus, upd.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Payment is already paid")
		}

		payment.PaymentStatus = upd.Status
		payment.PaymentReceivedFrom = model.PaymentReceivedExternal
		if upd.Method != "" {
			payment.PaymentMethod = upd.Method
		}
		if upd.EvidenceRef != "" {
			if payment.PaymentPayload == nil {
				payment.PaymentPayload = datatypes.JSONMap{}
			}
			payment.PaymentPayload["evidence_ref"] = upd.EvidenceRef
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		if upd.DiscountID != nil {
			if err := tx.Model(&eventModel.EventUserRole{}).
				Where("event_user_role_id = ?", payment.PaymentEventUserRole).
				Update("event_user_role_discount_id", upd.DiscountID).Error; err != nil {
				return err
			}
		}

		// Manual settlement supersedes any live gateway session.
		return tx.Model(&model.PaymentCheckout{}).
			Where("payment_checkout_payment_id = ? AND payment_checkout_status = ?",
				paymentID, model.CheckoutStatusActive).
			Update("payment_checkout_status", model.CheckoutStatusInactive).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) FindPaymentsByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.DB.WithContext(ctx).Preload("Checkouts").
		Where("payment_user_id = ?", userID).
		Order("payment_created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (s *PaymentService) FindPaymentsByEvent(ctx context.Context, eventID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.DB.WithContext(ctx).Preload("Checkouts").
		Where("payment_event_id = ?", eventID).
		Order("payment_created_at DESC").
		Find(&payments).Error
	return payments, err
}

// UserEventRoles groups a user's seats and waitlist entries per event for
// the "my registrations" view, with payment state alongside each seat.
type UserEventRoles struct {
	Event    eventModel.Event             `json:"event"`
	Seats    []eventModel.EventUserRole   `json:"seats"`
	Waitlist []eventModel.WaitlistEntry   `json:"waitlist,omitempty"`
	Payments map[uuid.UUID]*model.Payment `json:"payments"`
}

func (s *PaymentService) FindUserEventsWithRoles(ctx context.Context, userID uuid.UUID) ([]UserEventRoles, error) {
	var seats []eventModel.EventUserRole
	if err := s.DB.WithContext(ctx).Preload("Role").Preload("Role.Group").
		Where("event_user_role_user_id = ?", userID).
		Order("event_user_role_created_at ASC").
		Find(&seats).Error; err != nil {
		return nil, err
	}
	var waitlist []eventModel.WaitlistEntry
	if err := s.DB.WithContext(ctx).Preload("Role").Preload("Role.Group").
		Where("waitlist_user_id = ?", userID).
		Order("waitlist_created_at ASC").
		Find(&waitlist).Error; err != nil {
		return nil, err
	}
	if len(seats) == 0 && len(waitlist) == 0 {
		return []UserEventRoles{}, nil
	}

	var eventIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, seat := range seats {
		if !seen[seat.EventUserRoleEventID] {
			seen[seat.EventUserRoleEventID] = true
			eventIDs = append(eventIDs, seat.EventUserRoleEventID)
		}
	}
	for _, entry := range waitlist {
		if !seen[entry.WaitlistEventID] {
			seen[entry.WaitlistEventID] = true
			eventIDs = append(eventIDs, entry.WaitlistEventID)
		}
	}

	var events []eventModel.Event
	if err := s.DB.WithContext(ctx).Where("event_id IN ?", eventIDs).Find(&events).Error; err != nil {
		return nil, err
	}
	eventsByID := make(map[uuid.UUID]eventModel.Event, len(events))
	for _, e := range events {
		eventsByID[e.EventID] = e
	}

	var payments []model.Payment
	if err := s.DB.WithContext(ctx).
		Where("payment_user_id = ? AND payment_event_id IN ?", userID, eventIDs).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	paymentBySeat := make(map[uuid.UUID]*model.Payment, len(payments))
	for i := range payments {
		paymentBySeat[payments[i].PaymentEventUserRole] = &payments[i]
	}

	out := make([]UserEventRoles, 0, len(eventIDs))
	for _, eventID := range eventIDs {
		entry := UserEventRoles{
			Event:    eventsByID[eventID],
			Payments: make(map[uuid.UUID]*model.Payment),
		}
		for _, seat := range seats {
			if seat.EventUserRoleEventID != eventID {
				continue
			}
			entry.Seats = append(entry.Seats, seat)
			if p, ok := paymentBySeat[seat.EventUserRoleID]; ok {
				entry.Payments[seat.EventUserRoleID] = p
			}
		}
		for _, w := range waitlist {
			if w.WaitlistEventID == eventID {
				entry.Waitlist = append(entry.Waitlist, w)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
