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

type EventController struct {
	Service  *service.EventService
	Validate *validator.Validate
}

func NewEventController(db *gorm.DB) *EventController {
	return &EventController{
		Service:  service.NewEventService(db),
		Validate: validator.New(),
	}
}

/* ================= CRUD ================= */

func (ctrl *EventController) Create(c *fiber.Ctx) error {
	var body dto.EventRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	event, err := ctrl.Service.CreateEvent(c.Context(), &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Event created", event)
}

func (ctrl *EventController) Update(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}

	var body dto.EventRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	event, err := ctrl.Service.UpdateEvent(c.Context(), eventID, &body)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Event updated", event)
}

func (ctrl *EventController) FindAll(c *fiber.Ctx) error {
	events, err := ctrl.Service.FindAll(c.Context(), c.Query("name"))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Events fetched", events)
}

func (ctrl *EventController) FindOne(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}

	detail, err := ctrl.Service.FindOne(c.Context(), eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Event fetched", detail)
}

func (ctrl *EventController) FindWaitlist(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}

	entries, err := ctrl.Service.FindWaitlist(c.Context(), eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Waitlist fetched", entries)
}
