package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "obra360_backend/internals/features/users/auth/route"
	userRoutes "obra360_backend/internals/features/users/user/routes"
)

func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authRoute.AuthRoutes(api, db)
}

func UserRoutes(protected fiber.Router, db *gorm.DB) {
	authRoute.AuthProtectedRoutes(protected, db)
	userRoutes.UserAdminRoutes(protected, db)
}
