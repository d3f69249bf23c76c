package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"obra360_backend/internals/constants"
	userController "obra360_backend/internals/features/users/user/controller"
	authMiddleware "obra360_backend/internals/middlewares/auth"
)

// UserAdminRoutes: account management, ADMIN only.
func UserAdminRoutes(protected fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	users := protected.Group("/users",
		authMiddleware.OnlyRolesSlice(constants.RoleErrorAdmin("user management"), constants.AdminOnly),
	)
	users.Get("/", ctrl.GetUsers)
	users.Patch("/:id/role", ctrl.UpdateRole)
}
