package service

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	eventModel "eventku_backend/internals/features/events/model"
	paymentModel "eventku_backend/internals/features/payments/model"
)

// ValidateEnrollment applies the transaction-independent enrollment rules:
// requested roles must span distinct groups, and the user may hold neither a
// seat nor a waitlist entry touching any requested role's group.
func ValidateEnrollment(requested []eventModel.RoleRegistration, existing []eventModel.EventUserRole, onWaitlist bool) error {
	seen := make(map[uuid.UUID]struct{}, len(requested))
	for _, r := range requested {
		if _, dup := seen[r.RoleGroupID]; dup {
			return fiber.NewError(fiber.StatusBadRequest, "Roles must belong to different groups")
		}
		seen[r.RoleGroupID] = struct{}{}
	}

	heldRoles := make(map[uuid.UUID]struct{}, len(existing))
	heldGroups := make(map[uuid.UUID]struct{}, len(existing))
	for _, e := range existing {
		heldRoles[e.EventUserRoleRoleID] = struct{}{}
		if e.Role != nil {
			heldGroups[e.Role.RoleGroupID] = struct{}{}
		}
	}

	for _, r := range requested {
		if _, held := heldRoles[r.RoleID]; held {
			return fiber.NewError(fiber.StatusBadRequest, "User already registered in this event")
		}
		if _, held := heldGroups[r.RoleGroupID]; held {
			return fiber.NewError(fiber.StatusBadRequest, "User already holds a role in this group")
		}
	}

	if onWaitlist {
		return fiber.NewError(fiber.StatusBadRequest, "User is already on the waitlist for a requested role")
	}
	return nil
}

// NewSeatPayment builds the payment owned by a fresh seat. Free roles are
// settled immediately, priced ones start WAITING for a checkout.
func NewSeatPayment(seat *eventModel.EventUserRole, role *eventModel.RoleRegistration) *paymentModel.Payment {
	p := &paymentModel.Payment{
		PaymentUserID:        seat.EventUserRoleUserID,
		PaymentEventID:       seat.EventUserRoleEventID,
		PaymentRoleID:        seat.EventUserRoleRoleID,
		PaymentEventUserRole: seat.EventUserRoleID,
		PaymentAmount:        role.RolePrice,
		PaymentReceivedFrom:  paymentModel.PaymentReceivedSystem,
	}
	if role.RolePrice > 0 {
		p.PaymentStatus = paymentModel.PaymentStatusWaiting
		p.PaymentMethod = paymentModel.PaymentMethodOther
	} else {
		p.PaymentStatus = paymentModel.PaymentStatusPaid
		p.PaymentMethod = paymentModel.PaymentMethodCash
	}
	return p
}
