package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/users/controller"
)

// UserRoutes mounts the profile endpoints. The router passed in is already
// JWT-protected.
func UserRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)

	users := router.Group("/users")
	users.Get("/me", ctrl.Me)
	users.Put("/me", ctrl.UpdateMe)
}
