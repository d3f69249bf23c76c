package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"obra360_backend/internals/constants"
	"obra360_backend/internals/features/attendance/persons/controller"
	authMiddleware "obra360_backend/internals/middlewares/auth"
)

// PersonRoutes mounts /persons on a router already guarded by the auth middleware.
func PersonRoutes(protected fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPersonController(db)
	manage := authMiddleware.OnlyRolesSlice(constants.RoleErrorSupervisor("person management"), constants.SupervisorAndAbove)

	persons := protected.Group("/persons")
	persons.Get("/", ctrl.List)
	persons.Get("/:id", ctrl.GetByID)
	persons.Post("/", manage, ctrl.Create)
	persons.Put("/:id", manage, ctrl.Update)
}
