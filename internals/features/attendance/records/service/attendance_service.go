// file: internals/features/attendance/records/service/attendance_service.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	personRepo "obra360_backend/internals/features/attendance/persons/repository"
	"obra360_backend/internals/features/attendance/policy"
	"obra360_backend/internals/features/attendance/records/model"
	"obra360_backend/internals/features/attendance/records/repository"
	"obra360_backend/internals/helpers/apperror"
	"obra360_backend/internals/helpers/worktime"
)

type AttendanceService struct {
	Records   *repository.AttendanceRepository
	Persons   *personRepo.PersonRepository
	Threshold int
}

func NewAttendanceService(db *gorm.DB, threshold int) *AttendanceService {
	if threshold <= 0 {
		threshold = worktime.DefaultNormalThreshold
	}
	return &AttendanceService{
		Records:   repository.NewAttendanceRepository(db),
		Persons:   personRepo.NewPersonRepository(db),
		Threshold: threshold,
	}
}

type MarkPunchInput struct {
	PersonID     uuid.UUID
	Date         time.Time
	Kind         model.PunchKind
	Time         string
	Observations string
}

// MarkPunch records an entry or exit for (person, date), creating the day's
// record on the first punch.
func (s *AttendanceService) MarkPunch(ctx context.Context, caller policy.Caller, in MarkPunchInput) (*model.AttendanceRecordModel, error) {
	if in.PersonID == uuid.Nil {
		return nil, apperror.Validation("userId is required")
	}
	if in.Date.IsZero() {
		return nil, apperror.Validation("fecha is required")
	}
	if in.Kind != model.PunchEntry && in.Kind != model.PunchExit {
		return nil, apperror.Validation("tipo must be entrada or salida")
	}
	at, err := worktime.Parse(in.Time)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "hora must be H:MM, HH:MM or HH:MM:SS", err)
	}
	if err := caller.AuthorizePerson(in.PersonID); err != nil {
		return nil, err
	}

	exists, err := s.Persons.Exists(ctx, in.PersonID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to load person", err)
	}
	if !exists {
		return nil, apperror.NotFound("person not found")
	}

	apply := func(rec *model.AttendanceRecordModel) error {
		return rec.ApplyPunch(in.Kind, at, in.Observations, s.Threshold)
	}

	seed := model.NewRecord(in.PersonID, datatypes.Date(worktime.DateOnly(in.Date)), caller.UserID)
	if err := apply(seed); err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "invalid punch", err)
	}

	rec, err := s.Records.Upsert(ctx, seed, apply)
	if err != nil {
		if apperror.KindOf(err) != apperror.KindInternal {
			return nil, err
		}
		if apperror.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("person not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "failed to save attendance", err)
	}
	log.Printf("[INFO] attendance %s %s person=%s date=%s status=%s", in.Kind, at, in.PersonID, worktime.FormatDate(in.Date), rec.Status)
	return s.reload(ctx, rec)
}

// EditRecord applies a manual correction; the record becomes EDITED.
func (s *AttendanceService) EditRecord(ctx context.Context, caller policy.Caller, id uuid.UUID, patch model.EditPatch) (*model.AttendanceRecordModel, error) {
	rec, err := s.Records.UpdateByID(ctx, id, func(rec *model.AttendanceRecordModel) error {
		if err := caller.AuthorizePerson(rec.PersonID); err != nil {
			return err
		}
		if err := rec.ApplyEdit(patch, s.Threshold); err != nil {
			return apperror.Wrap(apperror.KindValidation, "horaEntrada/horaSalida must be H:MM, HH:MM or HH:MM:SS", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapRecordErr(err)
	}
	log.Printf("[INFO] attendance %s edited by %s", rec.ID, caller.UserID)
	return s.reload(ctx, rec)
}

func (s *AttendanceService) DeleteRecord(ctx context.Context, caller policy.Caller, id uuid.UUID) error {
	rec, err := s.Records.FindByID(ctx, id)
	if err != nil {
		return s.mapRecordErr(err)
	}
	if err := caller.AuthorizePerson(rec.PersonID); err != nil {
		return err
	}
	if err := s.Records.Delete(ctx, id); err != nil {
		return s.mapRecordErr(err)
	}
	log.Printf("[INFO] attendance %s deleted by %s", id, caller.UserID)
	return nil
}

func (s *AttendanceService) GetRecord(ctx context.Context, caller policy.Caller, id uuid.UUID) (*model.AttendanceRecordModel, error) {
	rec, err := s.Records.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRecordErr(err)
	}
	if err := caller.AuthorizePerson(rec.PersonID); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListFilter mirrors the query string of GET /attendance.
// Month and Year must be given together. From/To are inclusive days, either
// may be open, and they cannot be combined with Month/Year.
type ListFilter struct {
	Date     *time.Time
	PersonID *uuid.UUID
	Month    int
	Year     int
	From     *time.Time
	To       *time.Time
}

func (s *AttendanceService) ListRecords(ctx context.Context, caller policy.Caller, f ListFilter) ([]model.AttendanceRecordModel, error) {
	q := repository.ListFilter{
		PersonID: caller.EffectivePersonFilter(f.PersonID),
	}
	if f.Date != nil {
		d := worktime.DateOnly(*f.Date)
		q.Date = &d
	}
	if f.Month != 0 || f.Year != 0 {
		if f.From != nil || f.To != nil {
			return nil, apperror.Validation("use either mes/ano or desde/hasta")
		}
		if err := validatePeriod(f.Year, f.Month); err != nil {
			return nil, err
		}
		from, to := worktime.MonthRange(f.Year, time.Month(f.Month))
		q.From, q.To = &from, &to
	} else {
		var err error
		if q.From, q.To, err = dayRange(f.From, f.To); err != nil {
			return nil, err
		}
	}

	out, err := s.Records.List(ctx, q)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to list attendance", err)
	}
	return out, nil
}

func validatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return apperror.Validation("mes must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return apperror.Validation("ano must be between 1900 and 9999")
	}
	return nil
}

// dayRange turns inclusive calendar days into the store's half-open [from, to).
func dayRange(from, to *time.Time) (*time.Time, *time.Time, error) {
	var lo, hi *time.Time
	if from != nil {
		d := worktime.DateOnly(*from)
		lo = &d
	}
	if to != nil {
		d := worktime.DateOnly(*to).AddDate(0, 0, 1)
		hi = &d
	}
	if lo != nil && hi != nil && !lo.Before(*hi) {
		return nil, nil, apperror.Validation("desde must not be after hasta")
	}
	return lo, hi, nil
}

func (s *AttendanceService) reload(ctx context.Context, rec *model.AttendanceRecordModel) (*model.AttendanceRecordModel, error) {
	full, err := s.Records.FindByID(ctx, rec.ID)
	if err != nil {
		// the write succeeded; answer with what we have
		log.Printf("[WARN] reload attendance %s: %v", rec.ID, err)
		return rec, nil
	}
	return full, nil
}

func (s *AttendanceService) mapRecordErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("attendance record not found")
	}
	if apperror.KindOf(err) != apperror.KindInternal {
		return err
	}
	return apperror.Wrap(apperror.KindInternal, "attendance store failure", err)
}
