package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentCheckout links one payment to one gateway checkout session. Several
// rows may share the same external checkout id when one cart settles several
// payments. At most one ACTIVE generation may exist per payment: superseding
// a checkout first marks the previous generation INACTIVE.
type PaymentCheckout struct {
	PaymentCheckoutID uuid.UUID `gorm:"column:payment_checkout_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_checkout_id"`

	PaymentCheckoutPaymentID uuid.UUID `gorm:"column:payment_checkout_payment_id;type:uuid;not null;index" json:"payment_checkout_payment_id"`

	// Gateway-side checkout id, shared across the rows of one cart.
	PaymentCheckoutCheckoutID string `gorm:"column:payment_checkout_checkout_id;not null;index" json:"payment_checkout_checkout_id"`
	// Locally generated idempotency token handed to the gateway.
	PaymentCheckoutReferenceID string `gorm:"column:payment_checkout_reference_id;not null;index" json:"payment_checkout_reference_id"`

	PaymentCheckoutLink   string `gorm:"column:payment_checkout_link;not null" json:"payment_checkout_link"`
	PaymentCheckoutAmount int    `gorm:"column:payment_checkout_amount;not null" json:"payment_checkout_amount"`
	PaymentCheckoutStatus string `gorm:"column:payment_checkout_status;type:checkout_status;not null;default:'ACTIVE'" json:"payment_checkout_status"`

	CreatedAt time.Time `gorm:"column:payment_checkout_created_at;autoCreateTime" json:"payment_checkout_created_at"`
}

func (PaymentCheckout) TableName() string { return "payment_checkouts" }

func (c *PaymentCheckout) IsActive() bool {
	return c.PaymentCheckoutStatus == CheckoutStatusActive
}

// FresherThan reports whether the checkout is younger than the reuse window.
func (c *PaymentCheckout) FresherThan(window time.Duration, now time.Time) bool {
	return now.Sub(c.CreatedAt) < window
}
