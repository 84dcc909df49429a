package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventku_backend/internals/features/payments/dto"
	"eventku_backend/internals/features/payments/gateway"
	"eventku_backend/internals/features/payments/service"
	helper "eventku_backend/internals/helpers"
)

type PaymentController struct {
	Checkout *service.CheckoutService
	Payments *service.PaymentService
	Validate *validator.Validate
}

func NewPaymentController(db *gorm.DB, gw gateway.API) *PaymentController {
	return &PaymentController{
		Checkout: service.NewCheckoutService(db, gw),
		Payments: service.NewPaymentService(db),
		Validate: validator.New(),
	}
}

/* ================= Checkout ================= */

// CreateCheckout returns a payment link for the caller's unpaid seats,
// reusing a live gateway session when one still covers the whole cart.
func (ctrl *PaymentController) CreateCheckout(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.CreateCheckoutRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctrl.Checkout.CreateOrReuseCheckout(c.Context(), userID, body.EventID, body.RoleIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, result.Message, result)
}

/* ================= Settlement overrides ================= */

func (ctrl *PaymentController) Refund(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payment id")
	}

	payment, err := ctrl.Payments.RefundPayment(c.Context(), paymentID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Payment refunded", payment)
}

func (ctrl *PaymentController) UpdateStatus(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payment id")
	}

	var body dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	payment, err := ctrl.Payments.UpdatePaymentStatus(c.Context(), paymentID, service.ManualStatusUpdate{
		Status:      body.Status,
		Method:      body.Method,
		EvidenceRef: body.EvidenceRef,
		DiscountID:  body.DiscountID,
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Payment status updated", payment)
}

/* ================= Queries ================= */

func (ctrl *PaymentController) MyPayments(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	payments, err := ctrl.Payments.FindPaymentsByUser(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Payments fetched", payments)
}

func (ctrl *PaymentController) MyEvents(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	entries, err := ctrl.Payments.FindUserEventsWithRoles(c.Context(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Registrations fetched", entries)
}

func (ctrl *PaymentController) EventPayments(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid event id")
	}

	payments, err := ctrl.Payments.FindPaymentsByEvent(c.Context(), eventID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Payments fetched", payments)
}
