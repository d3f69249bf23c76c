package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"obra360_backend/internals/configs"
)

// RecoveryMiddleware turns panics into 500 responses; stack traces only in development.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: configs.IsDevelopment(),
	})
}
