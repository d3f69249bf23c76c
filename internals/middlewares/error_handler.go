package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"obra360_backend/internals/configs"
	helper "obra360_backend/internals/helpers"
	"obra360_backend/internals/helpers/apperror"
)

// ErrorHandler renders errors returned by handlers and middlewares in the
// standard error shape. Causes of 5xx stay in the log outside development.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := apperror.Status(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] id=%v %s %s: %v", c.Locals("reqid"), c.Method(), c.OriginalURL(), err)
	}
	return helper.JsonError(c, status, apperror.PublicMessage(err, configs.IsDevelopment()))
}
