package service

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventModel "eventku_backend/internals/features/events/model"
	paymentModel "eventku_backend/internals/features/payments/model"
)

func role(groupID uuid.UUID, price int) eventModel.RoleRegistration {
	return eventModel.RoleRegistration{
		RoleID:      uuid.New(),
		RoleGroupID: groupID,
		RolePrice:   price,
	}
}

func seatFor(r eventModel.RoleRegistration) eventModel.EventUserRole {
	roleCopy := r
	return eventModel.EventUserRole{
		EventUserRoleID:     uuid.New(),
		EventUserRoleRoleID: r.RoleID,
		Role:                &roleCopy,
	}
}

func TestValidateEnrollment(t *testing.T) {
	groupA := uuid.New()
	groupB := uuid.New()

	t.Run("distinct groups pass", func(t *testing.T) {
		err := ValidateEnrollment(
			[]eventModel.RoleRegistration{role(groupA, 100), role(groupB, 0)},
			nil, false)
		assert.NoError(t, err)
	})

	t.Run("two roles in one group rejected", func(t *testing.T) {
		err := ValidateEnrollment(
			[]eventModel.RoleRegistration{role(groupA, 100), role(groupA, 50)},
			nil, false)
		requireFiberCode(t, err, fiber.StatusBadRequest)
	})

	t.Run("already holding the requested role rejected", func(t *testing.T) {
		r := role(groupA, 100)
		err := ValidateEnrollment(
			[]eventModel.RoleRegistration{r},
			[]eventModel.EventUserRole{seatFor(r)}, false)
		requireFiberCode(t, err, fiber.StatusBadRequest)
	})

	t.Run("already holding another role of the group rejected", func(t *testing.T) {
		held := role(groupA, 100)
		requested := role(groupA, 50)
		err := ValidateEnrollment(
			[]eventModel.RoleRegistration{requested},
			[]eventModel.EventUserRole{seatFor(held)}, false)
		requireFiberCode(t, err, fiber.StatusBadRequest)
	})

	t.Run("seat in a different group does not block", func(t *testing.T) {
		held := role(groupB, 100)
		err := ValidateEnrollment(
			[]eventModel.RoleRegistration{role(groupA, 100)},
			[]eventModel.EventUserRole{seatFor(held)}, false)
		assert.NoError(t, err)
	})

	t.Run("waitlisted user rejected", func(t *testing.T) {
		err := ValidateEnrollment(
			[]eventModel.RoleRegistration{role(groupA, 100)},
			nil, true)
		requireFiberCode(t, err, fiber.StatusBadRequest)
	})
}

func TestNewSeatPayment(t *testing.T) {
	seat := eventModel.EventUserRole{
		EventUserRoleID:      uuid.New(),
		EventUserRoleUserID:  uuid.New(),
		EventUserRoleEventID: uuid.New(),
		EventUserRoleRoleID:  uuid.New(),
	}

	t.Run("priced role starts waiting", func(t *testing.T) {
		r := eventModel.RoleRegistration{RoleID: seat.EventUserRoleRoleID, RolePrice: 150}
		p := NewSeatPayment(&seat, &r)
		assert.Equal(t, paymentModel.PaymentStatusWaiting, p.PaymentStatus)
		assert.Equal(t, paymentModel.PaymentMethodOther, p.PaymentMethod)
		assert.Equal(t, 150, p.PaymentAmount)
		assert.Equal(t, paymentModel.PaymentReceivedSystem, p.PaymentReceivedFrom)
		assert.Equal(t, seat.EventUserRoleID, p.PaymentEventUserRole)
	})

	t.Run("free role settles immediately", func(t *testing.T) {
		r := eventModel.RoleRegistration{RoleID: seat.EventUserRoleRoleID, RolePrice: 0}
		p := NewSeatPayment(&seat, &r)
		assert.Equal(t, paymentModel.PaymentStatusPaid, p.PaymentStatus)
		assert.Equal(t, paymentModel.PaymentMethodCash, p.PaymentMethod)
		assert.Equal(t, 0, p.PaymentAmount)
	})
}

func requireFiberCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T", err)
	assert.Equal(t, code, fe.Code)
}
