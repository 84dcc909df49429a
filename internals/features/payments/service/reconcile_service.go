package service

import (
	"context"
	"log"

	"gorm.io/gorm"

	"eventku_backend/internals/features/payments/gateway"
	"eventku_backend/internals/features/payments/model"
)

/* =======================================================================
   Reconciliation

   The poller is the safety net behind webhooks: every open payment with a
   checkout gets its gateway charge state pulled and written through the
   same idempotent settlement path the webhooks use. A run never aborts on
   a single bad reference, it logs and moves on.
======================================================================= */

type ReconcileService struct {
	DB       *gorm.DB
	Gateway  gateway.API
	Payments *PaymentService
}

func NewReconcileService(db *gorm.DB, gw gateway.API) *ReconcileService {
	return &ReconcileService{DB: db, Gateway: gw, Payments: NewPaymentService(db)}
}

// ReconcilePendingPayments polls the gateway for every open payment's most
// recent checkout reference and applies whatever charge state it finds.
func (s *ReconcileService) ReconcilePendingPayments(ctx context.Context) error {
	var payments []model.Payment
	if err := s.DB.WithContext(ctx).Preload("Checkouts").
		Where("payment_status IN ?", []string{model.PaymentStatusWaiting, model.PaymentStatusInAnalysis}).
		Find(&payments).Error; err != nil {
		return err
	}

	// One lookup per reference even when several payments share it.
	references := make([]string, 0, len(payments))
	seen := make(map[string]bool)
	for i := range payments {
		if !payments[i].IsOpen() {
			continue
		}
		ref := newestReference(&payments[i])
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		references = append(references, ref)
	}
	if len(references) == 0 {
		return nil
	}
	log.Printf("[INFO] reconcile: checking %d checkout reference(s)", len(references))

	for _, ref := range references {
		charges, err := s.Gateway.ListCharges(ctx, ref)
		if err != nil {
			if gateway.IsNotFound(err) {
				// No charge was ever created for this session.
				continue
			}
			log.Printf("[WARN] reconcile: charges for reference %s: %v", ref, err)
			continue
		}

		charge := SelectCharge(charges)
		if charge == nil {
			continue
		}
		status := MapChargeStatus(charge.Status)
		method := MapChargeMethod(charge.PaymentMethod.Type)

		if err := s.Payments.ApplyChargeSettlement(ctx, ref, status, method, ChargePayload(charge)); err != nil {
			log.Printf("[WARN] reconcile: apply settlement for reference %s: %v", ref, err)
			continue
		}
		if status == model.PaymentStatusPaid {
			log.Printf("[INFO] reconcile: reference %s settled as PAID", ref)
		}
	}
	return nil
}

// newestReference picks the reference of the most recently created checkout
// row, preferring ACTIVE ones.
func newestReference(p *model.Payment) string {
	var best *model.PaymentCheckout
	for i := range p.Checkouts {
		c := &p.Checkouts[i]
		if best == nil {
			best = c
			continue
		}
		bestActive := best.IsActive()
		if c.IsActive() != bestActive {
			if c.IsActive() {
				best = c
			}
			continue
		}
		if c.CreatedAt.After(best.CreatedAt) {
			best = c
		}
	}
	if best == nil {
		return ""
	}
	return best.PaymentCheckoutReferenceID
}
