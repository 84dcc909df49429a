package dto

import "github.com/google/uuid"

type CreateCheckoutRequest struct {
	EventID uuid.UUID   `json:"event_id" validate:"required"`
	RoleIDs []uuid.UUID `json:"role_ids" validate:"required,min=1"`
}

type UpdatePaymentStatusRequest struct {
	Status      string     `json:"status" validate:"required"`
	Method      string     `json:"method,omitempty"`
	EvidenceRef string     `json:"evidence_ref,omitempty"`
	DiscountID  *uuid.UUID `json:"discount_id,omitempty"`
}
