package dto

import "github.com/google/uuid"

type EnrollRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids" validate:"required,min=1"`
}

type PromoteRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	RoleID uuid.UUID `json:"role_id" validate:"required"`
}

type EditEnrollmentRequest struct {
	UserID  uuid.UUID   `json:"user_id" validate:"required"`
	RoleIDs []uuid.UUID `json:"role_ids" validate:"required,min=1"`
}
