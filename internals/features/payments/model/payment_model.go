package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Payment is created together with its seat and never deleted afterwards.
// Pending states are owned by the checkout orchestrator, terminal states by
// reconciliation or an explicit manual override.
type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`

	PaymentUserID        uuid.UUID `gorm:"column:payment_user_id;type:uuid;not null;index" json:"payment_user_id"`
	PaymentEventID       uuid.UUID `gorm:"column:payment_event_id;type:uuid;not null;index" json:"payment_event_id"`
	PaymentRoleID        uuid.UUID `gorm:"column:payment_role_id;type:uuid;not null" json:"payment_role_id"`
	PaymentEventUserRole uuid.UUID `gorm:"column:payment_event_user_role_id;type:uuid;not null;uniqueIndex" json:"payment_event_user_role_id"`

	PaymentAmount int `gorm:"column:payment_amount;not null;check:payment_amount >= 0" json:"payment_amount"`

	PaymentStatus       string `gorm:"column:payment_status;type:payment_status;not null;default:'WAITING'" json:"payment_status"`
	PaymentMethod       string `gorm:"column:payment_method;type:payment_method;not null;default:'OTHER'" json:"payment_method"`
	PaymentReceivedFrom string `gorm:"column:payment_received_from;type:payment_received;not null;default:'SYSTEM'" json:"payment_received_from"`

	// Opaque last-seen gateway charge payload (plus manual-override evidence).
	PaymentPayload datatypes.JSONMap `gorm:"column:payment_payload;type:jsonb" json:"payment_payload,omitempty"`

	CreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	UpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`

	Checkouts []PaymentCheckout `gorm:"foreignKey:PaymentCheckoutPaymentID;references:PaymentID" json:"checkouts,omitempty"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) IsPaid() bool { return p.PaymentStatus == PaymentStatusPaid }

func (p *Payment) IsOpen() bool {
	switch p.PaymentStatus {
	case PaymentStatusWaiting, PaymentStatusInAnalysis:
		return true
	default:
		return false
	}
}

// ActiveCheckouts filters the loaded checkout rows down to the ACTIVE set.
func (p *Payment) ActiveCheckouts() []PaymentCheckout {
	var out []PaymentCheckout
	for _, c := range p.Checkouts {
		if c.PaymentCheckoutStatus == CheckoutStatusActive {
			out = append(out, c)
		}
	}
	return out
}
