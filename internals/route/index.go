// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	middlewares "obra360_backend/internals/middlewares"
	authMiddleware "obra360_backend/internals/middlewares/auth"
	routeDetails "obra360_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api", middlewares.GlobalRateLimiter())

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(api, db)

	// ===================== PRIVATE =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	protected := api.Group("", authMiddleware.AuthMiddleware(db))

	routeDetails.UserRoutes(protected, db)

	log.Println("[INFO] Setting up AttendanceRoutes...")
	routeDetails.AttendanceRoutes(protected, db)
}
