package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eventku_backend/internals/features/events/controller"
	"eventku_backend/internals/features/events/service"
)

// EventRoutes mounts everything under /events. The router passed in is
// already JWT-protected.
func EventRoutes(router fiber.Router, db *gorm.DB, notifier service.ConfirmationNotifier) {
	eventCtrl := controller.NewEventController(db)
	regCtrl := controller.NewRegistrationController(db, notifier)

	events := router.Group("/events")

	events.Get("/", eventCtrl.FindAll)
	events.Post("/", eventCtrl.Create)
	events.Get("/:id", eventCtrl.FindOne)
	events.Put("/:id", eventCtrl.Update)
	events.Get("/:id/waitlist", eventCtrl.FindWaitlist)

	events.Post("/:id/enroll", regCtrl.Enroll)
	events.Post("/:id/waitlist/promote", regCtrl.Promote)
	events.Put("/:id/enrollment", regCtrl.EditEnrollment)
	events.Delete("/:id/waitlist/:user_id/:role_id", regCtrl.RemoveFromWaitlist)
	events.Delete("/:id/users/:user_id", regCtrl.RemoveUser)
}
