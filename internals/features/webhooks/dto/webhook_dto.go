package dto

import "eventku_backend/internals/features/payments/gateway"

// PaymentWebhook is the gateway's charge notification. Some events carry the
// charge at the top level, others a charges array; both shapes are accepted.
type PaymentWebhook struct {
	Charges []gateway.Charge `json:"charges"`

	gateway.Charge
}

// AllCharges flattens both shapes into one list.
func (w *PaymentWebhook) AllCharges() []gateway.Charge {
	if len(w.Charges) > 0 {
		return w.Charges
	}
	if w.ID != "" || w.ReferenceID != "" {
		return []gateway.Charge{w.Charge}
	}
	return nil
}

// CheckoutWebhook is the gateway's checkout lifecycle notification.
type CheckoutWebhook struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
