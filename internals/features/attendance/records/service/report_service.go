// file: internals/features/attendance/records/service/report_service.go
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"obra360_backend/internals/features/attendance/policy"
	"obra360_backend/internals/features/attendance/records/model"
	"obra360_backend/internals/features/attendance/records/repository"
	"obra360_backend/internals/helpers/apperror"
	"obra360_backend/internals/helpers/worktime"
)

type ReportService struct {
	Records *repository.AttendanceRepository
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{Records: repository.NewAttendanceRepository(db)}
}

/* ===============================
   Daily summary
=================================*/

type DailySummary struct {
	Date            time.Time
	PresentCount    int
	CompleteCount   int
	TotalMinutes    int
	OvertimeMinutes int
	Records         []model.AttendanceRecordModel
}

// SummarizeDay folds the records of one day. Present = has an entry.
func SummarizeDay(date time.Time, records []model.AttendanceRecordModel) DailySummary {
	s := DailySummary{Date: date, Records: records}
	for _, r := range records {
		if r.HasEntry() {
			s.PresentCount++
		}
		if r.IsComplete() {
			s.CompleteCount++
		}
		s.TotalMinutes += max(0, r.TotalMinutes)
		s.OvertimeMinutes += max(0, r.OvertimeMinutes)
	}
	return s
}

func (s *ReportService) DailySummary(ctx context.Context, caller policy.Caller, date time.Time) (*DailySummary, error) {
	d := worktime.DateOnly(date)
	records, err := s.Records.List(ctx, repository.ListFilter{
		PersonID: caller.EffectivePersonFilter(nil),
		Date:     &d,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load attendance", err)
	}
	out := SummarizeDay(d, records)
	return &out, nil
}

/* ===============================
   Monthly report
=================================*/

type PersonMonth struct {
	PersonID        uuid.UUID
	Name            string
	CompleteDays    int
	TotalMinutes    int
	OvertimeMinutes int
	Records         []model.AttendanceRecordModel
}

// MonthlyReport covers either a calendar month (Year/Month set) or an
// arbitrary range of inclusive days (From/To, either may be nil).
type MonthlyReport struct {
	Year    int
	Month   int
	From    *time.Time
	To      *time.Time
	Persons []PersonMonth
}

func (r MonthlyReport) IsRange() bool { return r.Month == 0 }

func (r MonthlyReport) Empty() bool { return len(r.Persons) == 0 }

// GroupByPerson accumulates per-person totals. Output is ordered by name,
// each person's records by date ascending.
func GroupByPerson(records []model.AttendanceRecordModel) []PersonMonth {
	index := map[uuid.UUID]int{}
	out := []PersonMonth{}
	for _, r := range records {
		i, ok := index[r.PersonID]
		if !ok {
			i = len(out)
			index[r.PersonID] = i
			pm := PersonMonth{PersonID: r.PersonID}
			if r.Person != nil {
				pm.Name = r.Person.DisplayName()
			}
			out = append(out, pm)
		}
		pm := &out[i]
		if r.IsComplete() {
			pm.CompleteDays++
		}
		pm.TotalMinutes += max(0, r.TotalMinutes)
		pm.OvertimeMinutes += max(0, r.OvertimeMinutes)
		pm.Records = append(pm.Records, r)
	}

	for i := range out {
		recs := out[i].Records
		sort.SliceStable(recs, func(a, b int) bool {
			return recs[a].Date().Before(recs[b].Date())
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		na, nb := strings.ToLower(out[a].Name), strings.ToLower(out[b].Name)
		if na != nb {
			return na < nb
		}
		return out[a].PersonID.String() < out[b].PersonID.String()
	})
	return out
}

func (s *ReportService) MonthlyReport(ctx context.Context, caller policy.Caller, year, month int, person *uuid.UUID) (*MonthlyReport, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}
	from, to := worktime.MonthRange(year, time.Month(month))
	records, err := s.Records.List(ctx, repository.ListFilter{
		PersonID: caller.EffectivePersonFilter(person),
		From:     &from,
		To:       &to,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load attendance", err)
	}
	return &MonthlyReport{
		Year:    year,
		Month:   month,
		Persons: GroupByPerson(records),
	}, nil
}

// RangeReport groups the records between two inclusive days; nil bounds are open.
func (s *ReportService) RangeReport(ctx context.Context, caller policy.Caller, from, to *time.Time, person *uuid.UUID) (*MonthlyReport, error) {
	lo, hi, err := dayRange(from, to)
	if err != nil {
		return nil, err
	}
	records, err := s.Records.List(ctx, repository.ListFilter{
		PersonID: caller.EffectivePersonFilter(person),
		From:     lo,
		To:       hi,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load attendance", err)
	}

	out := &MonthlyReport{Persons: GroupByPerson(records)}
	if from != nil {
		d := worktime.DateOnly(*from)
		out.From = &d
	}
	if to != nil {
		d := worktime.DateOnly(*to)
		out.To = &d
	}
	return out, nil
}
