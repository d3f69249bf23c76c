package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	personRoute "obra360_backend/internals/features/attendance/persons/route"
	attendanceRoute "obra360_backend/internals/features/attendance/records/route"
)

func AttendanceRoutes(protected fiber.Router, db *gorm.DB) {
	personRoute.PersonRoutes(protected, db)
	attendanceRoute.AttendanceRoutes(protected, db)
}
