package dto

import (
	"strings"
	"time"

	"obra360_backend/internals/features/attendance/records/model"
	"obra360_backend/internals/features/attendance/records/service"
	"obra360_backend/internals/helpers/worktime"
)

// ============================
// Request DTOs
// ============================

// MarkRequest is the body of POST /attendance/mark. userId is the person id.
type MarkRequest struct {
	UserID        string  `json:"userId" validate:"required,uuid"`
	Fecha         string  `json:"fecha" validate:"required"`
	Tipo          string  `json:"tipo" validate:"required"`
	Hora          string  `json:"hora" validate:"required"`
	Observaciones *string `json:"observaciones"`
}

func (r *MarkRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Fecha = strings.TrimSpace(r.Fecha)
	r.Tipo = strings.TrimSpace(r.Tipo)
	r.Hora = strings.TrimSpace(r.Hora)
}

// EditRequest is the body of PUT /attendance/:id.
type EditRequest struct {
	HoraEntrada   *string `json:"horaEntrada"`
	HoraSalida    *string `json:"horaSalida"`
	Observaciones *string `json:"observaciones"`
}

func (r EditRequest) ToPatch() model.EditPatch {
	return model.EditPatch{
		EntryTime:    r.HoraEntrada,
		ExitTime:     r.HoraSalida,
		Observations: r.Observaciones,
	}
}

// ============================
// Response DTOs
// ============================

type AttendanceDTO struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Nombre          string    `json:"nombre,omitempty"`
	Fecha           string    `json:"fecha"`
	HoraEntrada     *string   `json:"horaEntrada"`
	HoraSalida      *string   `json:"horaSalida"`
	TotalMinutes    int       `json:"totalMinutes"`
	NormalMinutes   int       `json:"normalMinutes"`
	OvertimeMinutes int       `json:"overtimeMinutes"`
	HorasTotales    string    `json:"horasTotales"`
	HorasNormales   string    `json:"horasNormales"`
	HorasExtra      string    `json:"horasExtra"`
	Observaciones   *string   `json:"observaciones"`
	Estado          string    `json:"estado"`
	CreatedBy       string    `json:"createdBy"`
	RegistradoPor   string    `json:"registradoPor,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func ToAttendanceDTO(m model.AttendanceRecordModel) AttendanceDTO {
	out := AttendanceDTO{
		ID:              m.ID.String(),
		UserID:          m.PersonID.String(),
		Fecha:           worktime.FormatDate(m.Date()),
		HoraEntrada:     m.EntryTime,
		HoraSalida:      m.ExitTime,
		TotalMinutes:    m.TotalMinutes,
		NormalMinutes:   m.NormalMinutes,
		OvertimeMinutes: m.OvertimeMinutes,
		HorasTotales:    worktime.FormatMinutes(m.TotalMinutes),
		HorasNormales:   worktime.FormatMinutes(m.NormalMinutes),
		HorasExtra:      worktime.FormatMinutes(m.OvertimeMinutes),
		Observaciones:   m.Observations,
		Estado:          string(m.Status),
		CreatedBy:       m.CreatedBy.String(),
		RegistradoPor:   m.CreatedByName,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Person != nil {
		out.Nombre = m.Person.DisplayName()
	}
	return out
}

func ToAttendanceDTOs(ms []model.AttendanceRecordModel) []AttendanceDTO {
	out := make([]AttendanceDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToAttendanceDTO(m))
	}
	return out
}

type DailySummaryDTO struct {
	Date            string          `json:"date"`
	PresentCount    int             `json:"presentCount"`
	CompleteCount   int             `json:"completeCount"`
	TotalMinutes    int             `json:"totalMinutes"`
	OvertimeMinutes int             `json:"overtimeMinutes"`
	TotalHours      string          `json:"totalHours"`
	OvertimeHours   string          `json:"overtimeHours"`
	Records         []AttendanceDTO `json:"records"`
}

func ToDailySummaryDTO(s service.DailySummary) DailySummaryDTO {
	return DailySummaryDTO{
		Date:            worktime.FormatDate(s.Date),
		PresentCount:    s.PresentCount,
		CompleteCount:   s.CompleteCount,
		TotalMinutes:    s.TotalMinutes,
		OvertimeMinutes: s.OvertimeMinutes,
		TotalHours:      worktime.FormatMinutes(s.TotalMinutes),
		OvertimeHours:   worktime.FormatMinutes(s.OvertimeMinutes),
		Records:         ToAttendanceDTOs(s.Records),
	}
}

type PersonMonthDTO struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	TotalDias       int             `json:"totalDias"`
	TotalHoras      string          `json:"totalHoras"`
	TotalHorasExtra string          `json:"totalHorasExtra"`
	TotalMinutes    int             `json:"totalMinutes"`
	OvertimeMinutes int             `json:"overtimeMinutes"`
	Registros       []AttendanceDTO `json:"registros"`
}

type MonthlyReportDTO struct {
	Ano      int              `json:"ano,omitempty"`
	Mes      int              `json:"mes,omitempty"`
	Desde    string           `json:"desde,omitempty"`
	Hasta    string           `json:"hasta,omitempty"`
	Usuarios []PersonMonthDTO `json:"usuarios"`
	Empty    bool             `json:"empty"`
	Message  string           `json:"message,omitempty"`
}

const EmptyReportMessage = "No attendance records for this period"

func ToMonthlyReportDTO(r service.MonthlyReport) MonthlyReportDTO {
	out := MonthlyReportDTO{
		Ano:      r.Year,
		Mes:      r.Month,
		Usuarios: make([]PersonMonthDTO, 0, len(r.Persons)),
		Empty:    r.Empty(),
	}
	if r.From != nil {
		out.Desde = worktime.FormatDate(*r.From)
	}
	if r.To != nil {
		out.Hasta = worktime.FormatDate(*r.To)
	}
	if out.Empty {
		out.Message = EmptyReportMessage
	}
	for _, pm := range r.Persons {
		out.Usuarios = append(out.Usuarios, PersonMonthDTO{
			ID:              pm.PersonID.String(),
			Name:            pm.Name,
			TotalDias:       pm.CompleteDays,
			TotalHoras:      worktime.FormatMinutes(pm.TotalMinutes),
			TotalHorasExtra: worktime.FormatMinutes(pm.OvertimeMinutes),
			TotalMinutes:    pm.TotalMinutes,
			OvertimeMinutes: pm.OvertimeMinutes,
			Registros:       ToAttendanceDTOs(pm.Records),
		})
	}
	return out
}
