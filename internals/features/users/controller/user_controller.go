package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/users/dto"
	"eventku_backend/internals/features/users/model"
	helper "eventku_backend/internals/helpers"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db, Validate: validator.New()}
}

// Me returns the authenticated user's profile.
func (ctrl *UserController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var user model.User
	if err := ctrl.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return helper.Error(c, fiber.StatusNotFound, "User not found")
		}
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Profile fetched", user)
}

// UpdateMe updates the gateway-facing customer fields. CPF and cellphone are
// what checkout creation sends to the gateway, so they are validated here.
func (ctrl *UserController) UpdateMe(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var body dto.UpdateProfileRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	values := map[string]interface{}{}
	if body.FullName != "" {
		values["user_full_name"] = body.FullName
	}
	if body.CPF != "" {
		values["user_cpf"] = body.CPF
	}
	if body.Cellphone != "" {
		values["user_cellphone"] = body.Cellphone
	}
	if len(values) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Nothing to update")
	}

	res := ctrl.DB.WithContext(c.Context()).Model(&model.User{}).
		Where("user_id = ?", userID).
		Updates(values)
	if res.Error != nil {
		return helper.FromFiberError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}

	var user model.User
	if err := ctrl.DB.WithContext(c.Context()).First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Profile updated", user)
}
