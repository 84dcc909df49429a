package service

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"eventku_backend/internals/features/payments/gateway"
	"eventku_backend/internals/features/payments/model"
)

/* =======================================================================
   Gateway -> local mapping

   All mappings are total: an unrecognized gateway value degrades to the
   most conservative local state instead of failing the pipeline.
======================================================================= */

// MapChargeStatus maps a gateway charge status onto the payment enum.
func MapChargeStatus(status string) string {
	switch strings.ToUpper(status) {
	case "PAID":
		return model.PaymentStatusPaid
	case "IN_ANALYSIS", "AUTHORIZED":
		return model.PaymentStatusInAnalysis
	case "DECLINED":
		return model.PaymentStatusDeclined
	case "CANCELED":
		return model.PaymentStatusCanceled
	case "REFUNDED":
		return model.PaymentStatusRefunded
	case "WAITING":
		return model.PaymentStatusWaiting
	default:
		return model.PaymentStatusWaiting
	}
}

// MapChargeMethod maps a gateway payment-method type onto the method enum.
func MapChargeMethod(method string) string {
	switch strings.ToUpper(method) {
	case "PIX":
		return model.PaymentMethodPix
	case "CREDIT_CARD":
		return model.PaymentMethodCreditCard
	case "DEBIT_CARD":
		return model.PaymentMethodDebitCard
	case "BOLETO":
		return model.PaymentMethodBoleto
	case "CASH":
		return model.PaymentMethodCash
	default:
		return model.PaymentMethodOther
	}
}

// MapCheckoutStatus maps a gateway checkout status onto the checkout enum.
// CREATED means the session is still payable, so it stays ACTIVE locally.
func MapCheckoutStatus(status string) string {
	switch strings.ToUpper(status) {
	case "ACTIVE", "CREATED":
		return model.CheckoutStatusActive
	case "EXPIRED":
		return model.CheckoutStatusExpired
	case "CANCELED":
		return model.CheckoutStatusCanceled
	default:
		return model.CheckoutStatusInactive
	}
}

// SettlementAllowed reports whether an automated settlement write (webhook or
// poller) may overwrite a payment in the given status. PAID is terminal for
// automated writes: a duplicate PAID notification is a no-op, and a
// lower-priority status arriving later can never downgrade a settled payment.
func SettlementAllowed(current string) bool {
	return current != model.PaymentStatusPaid
}

// RefundAllowed reports whether a refund may be applied. Only a PAID payment
// is refundable; once REFUNDED a second refund is rejected.
func RefundAllowed(current string) bool {
	return current == model.PaymentStatusPaid
}

// ManualTransitionAllowed reports whether an operator override may move a
// payment from current to next. Once PAID, only a refund is accepted.
func ManualTransitionAllowed(current, next string) bool {
	if current == model.PaymentStatusPaid {
		return next == model.PaymentStatusRefunded
	}
	return true
}

// SelectCharge picks the authoritative charge from a gateway answer:
// a PAID charge wins outright, otherwise the most recently created one.
func SelectCharge(charges []gateway.Charge) *gateway.Charge {
	if len(charges) == 0 {
		return nil
	}
	selected := &charges[0]
	for i := range charges {
		if charges[i].Status == "PAID" {
			return &charges[i]
		}
		if charges[i].CreatedAt.After(selected.CreatedAt) {
			selected = &charges[i]
		}
	}
	return selected
}

// ChargePayload flattens a charge into the opaque JSONB blob stored on the
// payment. Round-trips through encoding/json so nested structs keep their
// wire field names.
func ChargePayload(c *gateway.Charge) datatypes.JSONMap {
	raw, err := json.Marshal(c)
	if err != nil {
		return datatypes.JSONMap{}
	}
	out := datatypes.JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return datatypes.JSONMap{}
	}
	return out
}
