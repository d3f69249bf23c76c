package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"obra360_backend/internals/configs"
	"obra360_backend/internals/features/attendance/records/controller"
	rateLimiter "obra360_backend/internals/middlewares"
)

// AttendanceRoutes mounts /attendance on a router already guarded by the auth
// middleware. Ownership is enforced per record by the policy package.
func AttendanceRoutes(protected fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAttendanceController(db, configs.NormalShiftMinutes)

	att := protected.Group("/attendance")
	att.Get("/", ctrl.List)
	att.Post("/mark", rateLimiter.MarkRateLimiter(), ctrl.Mark)
	att.Get("/summary/:fecha", ctrl.DailySummary)
	att.Get("/report", ctrl.RangeReport)
	att.Get("/export", ctrl.ExportRange)
	att.Get("/report/:ano/:mes", ctrl.MonthlyReport)
	att.Get("/report/:ano/:mes/export", ctrl.ExportMonthlyReport)
	att.Get("/:id", ctrl.GetByID)
	att.Put("/:id", ctrl.Update)
	att.Delete("/:id", ctrl.Delete)
}
