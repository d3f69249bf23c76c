package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"obra360_backend/internals/features/attendance/records/model"
	"obra360_backend/internals/helpers/apperror"
)

func TestSummarizeDay(t *testing.T) {
	entry, exit := "08:00:00", "17:00:00"
	records := []model.AttendanceRecordModel{
		{EntryTime: &entry, ExitTime: &exit, TotalMinutes: 540, NormalMinutes: 480, OvertimeMinutes: 60},
		{EntryTime: &entry},
		{ExitTime: &exit},
	}
	s := SummarizeDay(march(1), records)
	assert.Equal(t, 2, s.PresentCount)
	assert.Equal(t, 1, s.CompleteCount)
	assert.Equal(t, 540, s.TotalMinutes)
	assert.Equal(t, 60, s.OvertimeMinutes)
	assert.Len(t, s.Records, 3)
}

func TestDailySummary_CallerScoped(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	r := NewReportService(db)
	ana := createPerson(t, db, "Ana", "Diaz", "100")
	luis := createPerson(t, db, "Luis", "Paz", "200")

	mark(t, s, supervisor(), ana.ID, march(1), model.PunchEntry, "08:00")
	mark(t, s, supervisor(), ana.ID, march(1), model.PunchExit, "17:00")
	mark(t, s, supervisor(), luis.ID, march(1), model.PunchEntry, "09:00")
	mark(t, s, supervisor(), luis.ID, march(2), model.PunchEntry, "09:00")

	sum, err := r.DailySummary(context.Background(), supervisor(), march(1).Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.PresentCount)
	assert.Equal(t, 1, sum.CompleteCount)
	assert.Equal(t, 540, sum.TotalMinutes)
	assert.Equal(t, march(1), sum.Date)

	own, err := r.DailySummary(context.Background(), operario(luis.ID), march(1))
	require.NoError(t, err)
	assert.Equal(t, 1, own.PresentCount)
	assert.Equal(t, 0, own.CompleteCount)
}

func TestMonthlyReport_Empty(t *testing.T) {
	db := newTestDB(t)
	r := NewReportService(db)

	rep, err := r.MonthlyReport(context.Background(), supervisor(), 2024, 3, nil)
	require.NoError(t, err)
	assert.True(t, rep.Empty())
	assert.Equal(t, 2024, rep.Year)
	assert.Equal(t, 3, rep.Month)
}

func TestMonthlyReport_InvalidPeriod(t *testing.T) {
	r := NewReportService(newTestDB(t))

	_, err := r.MonthlyReport(context.Background(), supervisor(), 2024, 0, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = r.MonthlyReport(context.Background(), supervisor(), 2024, 13, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	_, err = r.MonthlyReport(context.Background(), supervisor(), 12, 5, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func seedMonth(t *testing.T, s *AttendanceService) (anaID, luisID string) {
	t.Helper()
	db := s.Records.DB
	ana := createPerson(t, db, "Ana", "Diaz", "100")
	luis := createPerson(t, db, "luis", "Paz", "200")

	// Luis first so ordering is not insertion order
	mark(t, s, supervisor(), luis.ID, march(5), model.PunchEntry, "08:00")
	mark(t, s, supervisor(), luis.ID, march(5), model.PunchExit, "16:00")

	mark(t, s, supervisor(), ana.ID, march(3), model.PunchEntry, "08:00")
	mark(t, s, supervisor(), ana.ID, march(3), model.PunchExit, "17:00")
	mark(t, s, supervisor(), ana.ID, march(1), model.PunchEntry, "22:00")
	mark(t, s, supervisor(), ana.ID, march(1), model.PunchExit, "08:00")
	mark(t, s, supervisor(), ana.ID, march(4), model.PunchEntry, "08:00")

	// outside the month
	mark(t, s, supervisor(), ana.ID, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), model.PunchEntry, "08:00")
	return ana.ID.String(), luis.ID.String()
}

func TestMonthlyReport_GroupsAndTotals(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	r := NewReportService(db)
	anaID, luisID := seedMonth(t, s)

	rep, err := r.MonthlyReport(context.Background(), supervisor(), 2024, 3, nil)
	require.NoError(t, err)
	require.False(t, rep.Empty())
	require.Len(t, rep.Persons, 2)

	ana := rep.Persons[0]
	assert.Equal(t, anaID, ana.PersonID.String())
	assert.Equal(t, "Ana Diaz", ana.Name)
	assert.Equal(t, 2, ana.CompleteDays)
	assert.Equal(t, 600+540, ana.TotalMinutes)
	assert.Equal(t, 120+60, ana.OvertimeMinutes)
	require.Len(t, ana.Records, 3)
	assert.Equal(t, march(1), ana.Records[0].Date())
	assert.Equal(t, march(3), ana.Records[1].Date())
	assert.Equal(t, march(4), ana.Records[2].Date())

	luis := rep.Persons[1]
	assert.Equal(t, luisID, luis.PersonID.String())
	assert.Equal(t, 1, luis.CompleteDays)
	assert.Equal(t, 480, luis.TotalMinutes)
	assert.Equal(t, 0, luis.OvertimeMinutes)

	only, err := r.MonthlyReport(context.Background(), supervisor(), 2024, 3, &luis.PersonID)
	require.NoError(t, err)
	require.Len(t, only.Persons, 1)
	assert.Equal(t, luis.PersonID, only.Persons[0].PersonID)

	own, err := r.MonthlyReport(context.Background(), operario(luis.PersonID), 2024, 3, &ana.PersonID)
	require.NoError(t, err)
	require.Len(t, own.Persons, 1)
	assert.Equal(t, luis.PersonID, own.Persons[0].PersonID)
}

func TestExportMonthlyCSV(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	r := NewReportService(db)
	seedMonth(t, s)

	rep, err := r.MonthlyReport(context.Background(), supervisor(), 2024, 3, nil)
	require.NoError(t, err)

	out, err := ExportMonthlyCSV(rep)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("\ufeff")))

	rows, err := csv.NewReader(bytes.NewReader(out[len("\ufeff"):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{
		"Ana Diaz", "100", "2024-03-01", "22:00:00", "08:00:00",
		"600", "480", "120", "10:00:00", "2:00:00", "COMPLETE", "",
	}, rows[1])
	assert.Equal(t, "luis Paz", rows[4][0])
	assert.Equal(t, "asistencia_2024_03.csv", ExportFileName(rep, "csv"))
}

func TestExportMonthlyXLSX(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	r := NewReportService(db)
	seedMonth(t, s)

	rep, err := r.MonthlyReport(context.Background(), supervisor(), 2024, 3, nil)
	require.NoError(t, err)

	out, err := ExportMonthlyXLSX(rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Registros", "Totales"}, f.GetSheetList())

	detail, err := f.GetRows("Registros")
	require.NoError(t, err)
	require.Len(t, detail, 5)
	assert.Equal(t, "Persona", detail[0][0])

	totals, err := f.GetRows("Totales")
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, []string{"Ana Diaz", "2", "19:00:00", "3:00:00", "1140", "180"}, totals[1])
	assert.True(t, strings.HasPrefix(totals[2][0], "luis"))
}

func TestRangeReport(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	r := NewReportService(db)
	seedMonth(t, s)
	ctx := context.Background()

	from := march(3)
	to := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	rep, err := r.RangeReport(ctx, supervisor(), &from, &to, nil)
	require.NoError(t, err)
	require.True(t, rep.IsRange())
	require.Len(t, rep.Persons, 2)
	// 3rd, 4th and 1 April for Ana; the overnight shift on the 1st is outside
	assert.Len(t, rep.Persons[0].Records, 3)
	assert.Equal(t, 540, rep.Persons[0].TotalMinutes)
	assert.Equal(t, "asistencia_2024-03-03_2024-04-01.csv", ExportFileName(rep, "csv"))

	open, err := r.RangeReport(ctx, supervisor(), nil, nil, nil)
	require.NoError(t, err)
	total := 0
	for _, pm := range open.Persons {
		total += len(pm.Records)
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, "asistencia_inicio_fin.xlsx", ExportFileName(open, "xlsx"))

	_, err = r.RangeReport(ctx, supervisor(), &to, &from, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	out, err := ExportMonthlyCSV(rep)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(out[len("\ufeff"):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}
