package service

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eventku_backend/internals/configs"
	eventModel "eventku_backend/internals/features/events/model"
	paymentModel "eventku_backend/internals/features/payments/model"
	userModel "eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

/* =======================================================================
   Enrollment coordinator

   Seat allocation runs inside one SERIALIZABLE transaction and is retried
   a bounded number of times when the store aborts with a serialization
   conflict. There is no application-level lock: the store linearizes
   concurrent claims for the last seat.
======================================================================= */

const (
	OutcomeRegistered = "REGISTERED"
	OutcomeWaitlisted = "WAITLISTED"
)

type EnrollmentOutcome struct {
	RoleID  uuid.UUID `json:"role_id"`
	Outcome string    `json:"outcome"`
}

// EnrollmentResult carries the user and event records so callers can hand
// them to the confirmation-notification collaborator.
type EnrollmentResult struct {
	User     userModel.User      `json:"user"`
	Event    eventModel.Event    `json:"event"`
	Outcomes []EnrollmentOutcome `json:"outcomes"`
}

// ConfirmationNotifier is the out-of-process mail collaborator; enrollment
// only hands it data, delivery is not this service's concern.
type ConfirmationNotifier interface {
	SendEnrollmentConfirmation(user userModel.User, event eventModel.Event, outcomes []EnrollmentOutcome)
}

type RegistrationService struct {
	DB       *gorm.DB
	Notifier ConfirmationNotifier
}

func NewRegistrationService(db *gorm.DB, notifier ConfirmationNotifier) *RegistrationService {
	return &RegistrationService{DB: db, Notifier: notifier}
}

// Enroll registers the user into the requested roles, falling back to the
// waitlist per full group. The whole operation re-runs from scratch on a
// serialization conflict, up to configs.EnrollMaxRetries extra attempts.
func (s *RegistrationService) Enroll(ctx context.Context, userID, eventID uuid.UUID, roleIDs []uuid.UUID) (*EnrollmentResult, error) {
	var result *EnrollmentResult
	err := helper.RetrySerializable(configs.EnrollMaxRetries, func() error {
		return helper.SerializableTx(ctx, s.DB, func(tx *gorm.DB) error {
			r, err := s.enrollTx(tx, userID, eventID, roleIDs)
			result = r
			return err
		})
	})
	if err != nil {
		if helper.IsSerializationFailure(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Registration conflicted with a concurrent request, please retry")
		}
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.SendEnrollmentConfirmation(result.User, result.Event, result.Outcomes)
	}
	return result, nil
}

// PromoteFromWaitlist turns a waitlist entry into a confirmed seat. When the
// group is full again this fails with a conflict and rolls back, leaving the
// entry intact: promotion is an explicit human action, never a silent requeue.
func (s *RegistrationService) PromoteFromWaitlist(ctx context.Context, userID, eventID, roleID uuid.UUID) (*EnrollmentResult, error) {
	var result *EnrollmentResult
	err := helper.RetrySerializable(configs.EnrollMaxRetries, func() error {
		return helper.SerializableTx(ctx, s.DB, func(tx *gorm.DB) error {
			var entry eventModel.WaitlistEntry
			if err := tx.Where(
				"waitlist_user_id = ? AND waitlist_event_id = ? AND waitlist_role_id = ?",
				userID, eventID, roleID,
			).First(&entry).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusNotFound, "Waitlist entry does not exist")
				}
				return err
			}

			if err := tx.Delete(&entry).Error; err != nil {
				return err
			}

			r, err := s.enrollTx(tx, userID, eventID, []uuid.UUID{roleID})
			if err != nil {
				return err
			}
			if r.Outcomes[0].Outcome == OutcomeWaitlisted {
				return fiber.NewError(fiber.StatusBadRequest, "No seats available in this group")
			}
			result = r
			return nil
		})
	})
	if err != nil {
		if helper.IsSerializationFailure(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Promotion conflicted with a concurrent request, please retry")
		}
		return nil, err
	}
	return result, nil
}

// EditEnrollment swaps a user's roles within an event. Vacated and new seats
// are evaluated in one transaction; a full target group rejects the whole
// edit instead of landing the user on the waitlist.
func (s *RegistrationService) EditEnrollment(ctx context.Context, userID, eventID uuid.UUID, newRoleIDs []uuid.UUID) (*EnrollmentResult, error) {
	var result *EnrollmentResult
	err := helper.RetrySerializable(configs.EnrollMaxRetries, func() error {
		return helper.SerializableTx(ctx, s.DB, func(tx *gorm.DB) error {
			var relation eventModel.EventOnUser
			if err := tx.Where(
				"event_on_user_user_id = ? AND event_on_user_event_id = ?", userID, eventID,
			).First(&relation).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return fiber.NewError(fiber.StatusNotFound, "User is not registered in this event")
				}
				return err
			}

			if err := s.vacateSeatsTx(tx, userID, eventID); err != nil {
				return err
			}

			r, err := s.enrollTx(tx, userID, eventID, newRoleIDs)
			if err != nil {
				return err
			}
			for _, o := range r.Outcomes {
				if o.Outcome == OutcomeWaitlisted {
					return fiber.NewError(fiber.StatusBadRequest, "No seats available in the selected group")
				}
			}
			result = r
			return nil
		})
	})
	if err != nil {
		if helper.IsSerializationFailure(err) {
			return nil, fiber.NewError(fiber.StatusConflict, "Edit conflicted with a concurrent request, please retry")
		}
		return nil, err
	}
	return result, nil
}

// RemoveFromWaitlist drops one waitlist entry.
func (s *RegistrationService) RemoveFromWaitlist(ctx context.Context, userID, eventID, roleID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where(
		"waitlist_user_id = ? AND waitlist_event_id = ? AND waitlist_role_id = ?",
		userID, eventID, roleID,
	).Delete(&eventModel.WaitlistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Waitlist entry does not exist")
	}
	return nil
}

// RemoveUserFromEvent vacates every seat of a user and drops the enrollment.
func (s *RegistrationService) RemoveUserFromEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var relation eventModel.EventOnUser
		if err := tx.Where(
			"event_on_user_user_id = ? AND event_on_user_event_id = ?", userID, eventID,
		).First(&relation).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "Relation does not exist")
			}
			return err
		}
		if err := s.vacateSeatsTx(tx, userID, eventID); err != nil {
			return err
		}
		return tx.Delete(&relation).Error
	})
}

/* =======================================================================
   Transactional internals
======================================================================= */

func (s *RegistrationService) enrollTx(tx *gorm.DB, userID, eventID uuid.UUID, roleIDs []uuid.UUID) (*EnrollmentResult, error) {
	if len(roleIDs) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "No roles requested")
	}

	var user userModel.User
	if err := tx.First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return nil, err
	}
	var event eventModel.Event
	if err := tx.First(&event, "event_id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return nil, err
	}

	// Requested roles must belong to this event's groups.
	var roles []eventModel.RoleRegistration
	if err := tx.
		Joins("JOIN group_roles g ON g.group_role_id = roles_registration.role_group_id").
		Where("roles_registration.role_id IN ? AND g.group_role_event_id = ?", roleIDs, eventID).
		Preload("Group").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	if len(roles) != len(roleIDs) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid role(s) for this event")
	}

	var existing []eventModel.EventUserRole
	if err := tx.Preload("Role").
		Where("event_user_role_user_id = ? AND event_user_role_event_id = ?", userID, eventID).
		Find(&existing).Error; err != nil {
		return nil, err
	}

	var waitlisted int64
	if err := tx.Model(&eventModel.WaitlistEntry{}).
		Where("waitlist_user_id = ? AND waitlist_event_id = ? AND waitlist_role_id IN ?", userID, eventID, roleIDs).
		Count(&waitlisted).Error; err != nil {
		return nil, err
	}

	if err := ValidateEnrollment(roles, existing, waitlisted > 0); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]eventModel.RoleRegistration, len(roles))
	for _, r := range roles {
		byID[r.RoleID] = r
	}

	outcomes := make([]EnrollmentOutcome, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		role := byID[roleID]

		var taken int64
		if err := tx.Model(&eventModel.EventUserRole{}).
			Joins("JOIN roles_registration r ON r.role_id = event_user_roles.event_user_role_role_id").
			Where("r.role_group_id = ? AND event_user_role_event_id = ?", role.RoleGroupID, eventID).
			Count(&taken).Error; err != nil {
			return nil, err
		}

		if !role.Group.HasSeatFor(taken) {
			entry := eventModel.WaitlistEntry{
				WaitlistUserID:  userID,
				WaitlistEventID: eventID,
				WaitlistRoleID:  roleID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				if helper.IsUniqueViolation(err) {
					return nil, fiber.NewError(fiber.StatusConflict, "User is already waitlisted for this role")
				}
				return nil, err
			}
			outcomes = append(outcomes, EnrollmentOutcome{RoleID: roleID, Outcome: OutcomeWaitlisted})
			continue
		}

		// Lazy enrollment upsert, keyed by the composite primary key.
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&eventModel.EventOnUser{
				EventOnUserUserID:  userID,
				EventOnUserEventID: eventID,
			}).Error; err != nil {
			return nil, err
		}

		seat := eventModel.EventUserRole{
			EventUserRoleUserID:  userID,
			EventUserRoleEventID: eventID,
			EventUserRoleRoleID:  roleID,
		}
		if err := tx.Create(&seat).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, fiber.NewError(fiber.StatusConflict, "User already holds this role in the event")
			}
			return nil, err
		}

		if err := tx.Create(NewSeatPayment(&seat, &role)).Error; err != nil {
			return nil, err
		}

		outcomes = append(outcomes, EnrollmentOutcome{RoleID: roleID, Outcome: OutcomeRegistered})
	}

	return &EnrollmentResult{User: user, Event: event, Outcomes: outcomes}, nil
}

// vacateSeatsTx deletes the user's seats and waitlist entries for the event.
// Payments are never deleted: open ones flip to CANCELED, settled ones stay.
func (s *RegistrationService) vacateSeatsTx(tx *gorm.DB, userID, eventID uuid.UUID) error {
	var seats []eventModel.EventUserRole
	if err := tx.Where(
		"event_user_role_user_id = ? AND event_user_role_event_id = ?", userID, eventID,
	).Find(&seats).Error; err != nil {
		return err
	}

	if len(seats) > 0 {
		seatIDs := make([]uuid.UUID, 0, len(seats))
		for _, seat := range seats {
			seatIDs = append(seatIDs, seat.EventUserRoleID)
		}

		if err := tx.Model(&paymentModel.Payment{}).
			Where("payment_event_user_role_id IN ? AND payment_status IN ?",
				seatIDs, []string{paymentModel.PaymentStatusWaiting, paymentModel.PaymentStatusInAnalysis}).
			Update("payment_status", paymentModel.PaymentStatusCanceled).Error; err != nil {
			return err
		}

		var paymentIDs []uuid.UUID
		if err := tx.Model(&paymentModel.Payment{}).
			Where("payment_event_user_role_id IN ?", seatIDs).
			Pluck("payment_id", &paymentIDs).Error; err != nil {
			return err
		}
		if len(paymentIDs) > 0 {
			if err := tx.Model(&paymentModel.PaymentCheckout{}).
				Where("payment_checkout_payment_id IN ? AND payment_checkout_status = ?",
					paymentIDs, paymentModel.CheckoutStatusActive).
				Update("payment_checkout_status", paymentModel.CheckoutStatusCanceled).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("event_user_role_id IN ?", seatIDs).
			Delete(&eventModel.EventUserRole{}).Error; err != nil {
			return err
		}
	}

	return tx.Where("waitlist_user_id = ? AND waitlist_event_id = ?", userID, eventID).
		Delete(&eventModel.WaitlistEntry{}).Error
}
