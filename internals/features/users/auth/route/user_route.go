// file: internals/features/users/auth/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	controller "obra360_backend/internals/features/users/auth/controller"
	rateLimiter "obra360_backend/internals/middlewares"
)

// AuthRoutes mounts the public endpoints under /api/auth.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := api.Group("/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/register", rateLimiter.RegisterRateLimiter(), authController.Register)
}

// AuthProtectedRoutes expects the auth middleware on the router.
func AuthProtectedRoutes(protected fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	protected.Post("/auth/logout", authController.Logout)
	protected.Get("/auth/me", authController.Me)
}
