package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"obra360_backend/internals/configs"
	"obra360_backend/internals/features/attendance/policy"
	"obra360_backend/internals/features/attendance/records/dto"
	"obra360_backend/internals/features/attendance/records/model"
	"obra360_backend/internals/features/attendance/records/service"
	helper "obra360_backend/internals/helpers"
	"obra360_backend/internals/helpers/worktime"
)

var validateAttendance = validator.New()

type AttendanceController struct {
	DB      *gorm.DB
	Service *service.AttendanceService
	Reports *service.ReportService
}

func NewAttendanceController(db *gorm.DB, threshold int) *AttendanceController {
	return &AttendanceController{
		DB:      db,
		Service: service.NewAttendanceService(db, threshold),
		Reports: service.NewReportService(db),
	}
}

func (ctrl *AttendanceController) caller(c *fiber.Ctx) (policy.Caller, error) {
	return policy.FromRequest(c, ctrl.DB)
}

func fail(c *fiber.Ctx, err error) error {
	return helper.JsonAppError(c, err, configs.IsDevelopment())
}

func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" must be a valid id")
	}
	return &id, nil
}

func parseOptionalDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := worktime.ParseDate(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" must be YYYY-MM-DD")
	}
	return &d, nil
}

// =======================
// GET /attendance?fecha=&userId=&mes=&ano=&desde=&hasta=
// =======================
func (ctrl *AttendanceController) List(c *fiber.Ctx) error {
	caller, err := ctrl.caller(c)
	if err != nil {
		return fail(c, err)
	}

	var f service.ListFilter
	if raw := strings.TrimSpace(c.Query("fecha")); raw != "" {
		d, err := worktime.ParseDate(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		f.Date = &d
	}
	if f.PersonID, err = parseOptionalUUID(c.Query("userId"), "userId"); err != nil {
		return fail(c, err)
	}
	mes, ano := strings.TrimSpace(c.Query("mes")), strings.TrimSpace(c.Query("ano"))
	if mes != "" || ano != "" {
		if mes == "" || ano == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "mes and ano must be given together")
		}
		if f.Month, err = strconv.Atoi(mes); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "mes must be a number")
		}
		if f.Year, err = strconv.Atoi(ano); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "ano must be a number")
		}
	}

	if f.From, err = parseOptionalDate(c.Query("desde"), "desde"); err != nil {
		return fail(c, err)
	}
	if f.To, err = parseOptionalDate(c.Query("hasta"), "hasta"); err != nil {
		return fail(c, err)
	}

	records, err := ctrl.Service.ListRecords(c.UserContext(), caller, f)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonList(c, "ok", dto.ToAttendanceDTOs(records), nil)
}

// =======================
// POST /attendance/mark
// =======================
func (ctrl *AttendanceController) Mark(c *fiber.Ctx) error {
	caller, err := ctrl.caller(c)
	if err != nil {
		return fail(c, err)
	}

	var body dto.MarkRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	body.Normalize()
	if err := validateAttendance.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	personID, _ := uuid.Parse(body.UserID)
	date, err := worktime.ParseDate(body.Fecha)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	kind, err := model.ParsePunchKind(body.Tipo)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	obs := ""
	if body.Observaciones != nil {
		obs = *body.Observaciones
	}

	rec, err := ctrl.Service.MarkPunch(c.UserContext(), caller, service.MarkPunchInput{
		PersonID:     personID,
		Date:         date,
		Kind:         kind,
		Time:         body.Hora,
		Observations: obs,
	})
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Attendance marked", dto.ToAttendanceDTO(*rec))
}

// =======================
// GET /attendance/:id
// =======================
func (ctrl *AttendanceController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}
	caller, err := ctrl.caller(c)
	if err != nil {
		return fail(c, err)
	}
	rec, err := ctrl.Service.GetRecord(c.UserContext(), caller, id)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToAttendanceDTO(*rec))
}

// =======================
// PUT /attendance/:id
// =======================
func (ctrl *AttendanceController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}
	caller, err := ctrl.caller(c)
	if err != nil {
		return fail(c, err)
	}

	var body dto.EditRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	rec, err := ctrl.Service.EditRecord(c.UserContext(), caller, id, body.ToPatch())
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonUpdated(c, "Attendance updated", dto.ToAttendanceDTO(*rec))
}

// =======================
// DELETE /attendance/:id
// =======================
func (ctrl *AttendanceController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance id")
	}
	caller, err := ctrl.caller(c)
	if err != nil {
		return fail(c, err)
	}
	if err := ctrl.Service.DeleteRecord(c.UserContext(), caller, id); err != nil {
		return fail(c, err)
	}
	return helper.JsonDeleted(c, "Attendance deleted", fiber.Map{"id": id})
}

// =======================
// GET /attendance/summary/:fecha
// =======================
func (ctrl *AttendanceController) DailySummary(c *fiber.Ctx) error {
	date, err := worktime.ParseDate(c.Params("fecha"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	caller, err := ctrl.caller(c)
	if err != nil {
		return fail(c, err)
	}
	summary, err := ctrl.Reports.DailySummary(c.UserContext(), caller, date)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToDailySummaryDTO(*summary))
}

func (ctrl *AttendanceController) monthlyReport(c *fiber.Ctx) (*service.MonthlyReport, error) {
	year, err := strconv.Atoi(c.Params("ano"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "ano must be a number")
	}
	month, err := strconv.Atoi(c.Params("mes"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "mes must be a number")
	}
	person, err := parseOptionalUUID(c.Query("userId"), "userId")
	if err != nil {
		return nil, err
	}
	caller, err := ctrl.caller(c)
	if err != nil {
		return nil, err
	}
	return ctrl.Reports.MonthlyReport(c.UserContext(), caller, year, month, person)
}

// =======================
// GET /attendance/report/:ano/:mes?userId=
// =======================
func (ctrl *AttendanceController) MonthlyReport(c *fiber.Ctx) error {
	report, err := ctrl.monthlyReport(c)
	if err != nil {
		return fail(c, err)
	}
	out := dto.ToMonthlyReportDTO(*report)
	msg := "ok"
	if out.Empty {
		msg = dto.EmptyReportMessage
	}
	return helper.JsonOK(c, msg, out)
}

// =======================
// GET /attendance/report/:ano/:mes/export?format=csv|xlsx&userId=
// =======================
func (ctrl *AttendanceController) ExportMonthlyReport(c *fiber.Ctx) error {
	report, err := ctrl.monthlyReport(c)
	if err != nil {
		return fail(c, err)
	}
	return sendExport(c, report)
}

func (ctrl *AttendanceController) rangeReport(c *fiber.Ctx) (*service.MonthlyReport, error) {
	from, err := parseOptionalDate(c.Query("desde"), "desde")
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(c.Query("hasta"), "hasta")
	if err != nil {
		return nil, err
	}
	person, err := parseOptionalUUID(c.Query("userId"), "userId")
	if err != nil {
		return nil, err
	}
	caller, err := ctrl.caller(c)
	if err != nil {
		return nil, err
	}
	return ctrl.Reports.RangeReport(c.UserContext(), caller, from, to, person)
}

// =======================
// GET /attendance/report?desde=&hasta=&userId=
// =======================
func (ctrl *AttendanceController) RangeReport(c *fiber.Ctx) error {
	report, err := ctrl.rangeReport(c)
	if err != nil {
		return fail(c, err)
	}
	out := dto.ToMonthlyReportDTO(*report)
	msg := "ok"
	if out.Empty {
		msg = dto.EmptyReportMessage
	}
	return helper.JsonOK(c, msg, out)
}

// =======================
// GET /attendance/export?desde=&hasta=&userId=&format=csv|xlsx
// =======================
func (ctrl *AttendanceController) ExportRange(c *fiber.Ctx) error {
	report, err := ctrl.rangeReport(c)
	if err != nil {
		return fail(c, err)
	}
	return sendExport(c, report)
}

func sendExport(c *fiber.Ctx, report *service.MonthlyReport) error {
	var (
		body        []byte
		contentType string
		ext         string
		err         error
	)
	switch strings.ToLower(strings.TrimSpace(c.Query("format", "csv"))) {
	case "csv":
		body, err = service.ExportMonthlyCSV(report)
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case "xlsx":
		body, err = service.ExportMonthlyXLSX(report)
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "format must be csv or xlsx")
	}
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Attachment(service.ExportFileName(report, ext))
	return c.Status(fiber.StatusOK).Send(body)
}
