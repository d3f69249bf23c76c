package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"obra360_backend/internals/helpers/worktime"
)

var exportHeader = []string{
	"Persona", "DNI", "Fecha", "Entrada", "Salida",
	"Minutos totales", "Minutos normales", "Minutos extra",
	"Horas totales", "Horas extra", "Estado", "Observaciones",
}

func exportRows(r *MonthlyReport) [][]string {
	rows := [][]string{}
	for _, pm := range r.Persons {
		for _, rec := range pm.Records {
			dni := ""
			if rec.Person != nil {
				dni = rec.Person.DNI
			}
			rows = append(rows, []string{
				pm.Name,
				dni,
				worktime.FormatDate(rec.Date()),
				deref(rec.EntryTime),
				deref(rec.ExitTime),
				strconv.Itoa(rec.TotalMinutes),
				strconv.Itoa(rec.NormalMinutes),
				strconv.Itoa(rec.OvertimeMinutes),
				worktime.FormatMinutes(rec.TotalMinutes),
				worktime.FormatMinutes(rec.OvertimeMinutes),
				string(rec.Status),
				deref(rec.Observations),
			})
		}
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ExportFileName is "asistencia_YYYY_MM.<ext>" for a month and
// "asistencia_<desde>_<hasta>.<ext>" for a range.
func ExportFileName(r *MonthlyReport, ext string) string {
	if !r.IsRange() {
		return fmt.Sprintf("asistencia_%04d_%02d.%s", r.Year, r.Month, ext)
	}
	from, to := "inicio", "fin"
	if r.From != nil {
		from = worktime.FormatDate(*r.From)
	}
	if r.To != nil {
		to = worktime.FormatDate(*r.To)
	}
	return fmt.Sprintf("asistencia_%s_%s.%s", from, to, ext)
}

// ExportMonthlyCSV writes one row per record, UTF-8 with BOM so spreadsheet
// apps pick the right encoding.
func ExportMonthlyCSV(r *MonthlyReport) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(exportRows(r)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportMonthlyXLSX writes the same rows as the CSV plus a per-person totals sheet.
func ExportMonthlyXLSX(r *MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const detail = "Registros"
	const totals = "Totales"
	if err := f.SetSheetName("Sheet1", detail); err != nil {
		return nil, err
	}
	if err := writeSheet(f, detail, exportHeader, exportRows(r)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(totals); err != nil {
		return nil, err
	}
	totalRows := make([][]string, 0, len(r.Persons))
	for _, pm := range r.Persons {
		totalRows = append(totalRows, []string{
			pm.Name,
			strconv.Itoa(pm.CompleteDays),
			worktime.FormatMinutes(pm.TotalMinutes),
			worktime.FormatMinutes(pm.OvertimeMinutes),
			strconv.Itoa(pm.TotalMinutes),
			strconv.Itoa(pm.OvertimeMinutes),
		})
	}
	if err := writeSheet(f, totals,
		[]string{"Persona", "Dias completos", "Horas totales", "Horas extra", "Minutos totales", "Minutos extra"},
		totalRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
