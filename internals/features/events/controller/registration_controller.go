package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/features/events/dto"
	"eventku_backend/internals/features/events/service"
	helper "eventku_backend/internals/helpers"
)

type RegistrationController struct {
	Service  *service.RegistrationService
	Validate *validator.Validate
}

func NewRegistrationController(db *gorm.DB, notifier service.ConfirmationNotifier) *RegistrationController {
	return &RegistrationController{
		Service:  service.NewRegistrationService(db, notifier),
		Validate: validator.New(),
	}
}

// Enroll registers the authenticated user for one or more roles of an event.
func (ctrl *RegistrationController) Enroll(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}

	var body dto.EnrollRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Service.Enroll(c.Context(), userID, eventID, body.RoleIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Enrollment processed", result)
}

// Promote moves a waitlisted user into a freed seat. Admin-facing.
func (ctrl *RegistrationController) Promote(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}

	var body dto.PromoteRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Service.PromoteFromWaitlist(c.Context(), body.UserID, eventID, body.RoleID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "User promoted from waitlist", result)
}

// EditEnrollment replaces a user's role set for the event in one shot.
func (ctrl *RegistrationController) EditEnrollment(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}

	var body dto.EditEnrollmentRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Service.EditEnrollment(c.Context(), body.UserID, eventID, body.RoleIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Enrollment updated", result)
}

func (ctrl *RegistrationController) RemoveFromWaitlist(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}
	roleID, err := uuid.Parse(c.Params("role_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid role id")
	}

	if err := ctrl.Service.RemoveFromWaitlist(c.Context(), userID, eventID, roleID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Removed from waitlist", nil)
}

func (ctrl *RegistrationController) RemoveUser(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
	}

	if err := ctrl.Service.RemoveUserFromEvent(c.Context(), userID, eventID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "User removed from event", nil)
}
