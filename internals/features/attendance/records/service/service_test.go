package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"obra360_backend/internals/constants"
	database "obra360_backend/internals/databases"
	personModel "obra360_backend/internals/features/attendance/persons/model"
	"obra360_backend/internals/features/attendance/policy"
	"obra360_backend/internals/features/attendance/records/model"
	"obra360_backend/internals/helpers/apperror"
	"obra360_backend/internals/helpers/worktime"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createPerson(t *testing.T, db *gorm.DB, first, last, dni string) personModel.PersonModel {
	t.Helper()
	p := personModel.PersonModel{FirstName: first, LastName: last, DNI: dni, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func supervisor() policy.Caller {
	return policy.Caller{UserID: uuid.New(), Role: constants.RoleSupervisor}
}

func operario(personID uuid.UUID) policy.Caller {
	return policy.Caller{UserID: uuid.New(), Role: constants.RoleOperario, PersonID: &personID}
}

func march(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func mark(t *testing.T, s *AttendanceService, c policy.Caller, person uuid.UUID, date time.Time, kind model.PunchKind, at string) *model.AttendanceRecordModel {
	t.Helper()
	rec, err := s.MarkPunch(context.Background(), c, MarkPunchInput{PersonID: person, Date: date, Kind: kind, Time: at})
	require.NoError(t, err)
	return rec
}

func TestMarkPunch_DayShift(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, worktime.DefaultNormalThreshold)
	p := createPerson(t, db, "Ana", "Diaz", "100")
	c := supervisor()

	rec := mark(t, s, c, p.ID, march(1), model.PunchEntry, "08:00")
	assert.Equal(t, model.StatusPending, rec.Status)
	assert.Equal(t, c.UserID, rec.CreatedBy)
	assert.Zero(t, rec.TotalMinutes)

	rec = mark(t, s, c, p.ID, march(1), model.PunchExit, "17:00")
	assert.Equal(t, model.StatusComplete, rec.Status)
	assert.Equal(t, 540, rec.TotalMinutes)
	assert.Equal(t, 480, rec.NormalMinutes)
	assert.Equal(t, 60, rec.OvertimeMinutes)
	assert.Equal(t, "9:00:00", worktime.FormatMinutes(rec.TotalMinutes))
	assert.Equal(t, "8:00:00", worktime.FormatMinutes(rec.NormalMinutes))
	assert.Equal(t, "1:00:00", worktime.FormatMinutes(rec.OvertimeMinutes))
	require.NotNil(t, rec.Person)
	assert.Equal(t, "Ana Diaz", rec.Person.DisplayName())
}

func TestMarkPunch_NightShift(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, worktime.DefaultNormalThreshold)
	p := createPerson(t, db, "Ana", "Diaz", "100")

	mark(t, s, supervisor(), p.ID, march(1), model.PunchEntry, "22:00")
	rec := mark(t, s, supervisor(), p.ID, march(1), model.PunchExit, "06:00")
	assert.Equal(t, 480, rec.TotalMinutes)
	assert.Equal(t, 0, rec.OvertimeMinutes)
	assert.Equal(t, model.StatusComplete, rec.Status)
}

func TestMarkPunch_ConfigurableThreshold(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 420)
	p := createPerson(t, db, "Ana", "Diaz", "100")

	mark(t, s, supervisor(), p.ID, march(1), model.PunchEntry, "08:00")
	rec := mark(t, s, supervisor(), p.ID, march(1), model.PunchExit, "16:00")
	assert.Equal(t, 420, rec.NormalMinutes)
	assert.Equal(t, 60, rec.OvertimeMinutes)
}

func TestMarkPunch_Idempotent(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	p := createPerson(t, db, "Ana", "Diaz", "100")

	mark(t, s, supervisor(), p.ID, march(1), model.PunchEntry, "08:00")
	first := mark(t, s, supervisor(), p.ID, march(1), model.PunchExit, "17:00")
	again := mark(t, s, supervisor(), p.ID, march(1), model.PunchExit, "17:00")

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, *first.EntryTime, *again.EntryTime)
	assert.Equal(t, *first.ExitTime, *again.ExitTime)
	assert.Equal(t, first.TotalMinutes, again.TotalMinutes)
	assert.Equal(t, first.NormalMinutes, again.NormalMinutes)
	assert.Equal(t, first.OvertimeMinutes, again.OvertimeMinutes)
	assert.Equal(t, first.Status, again.Status)
}

func TestMarkPunch_ConcurrentSingleRecord(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	p := createPerson(t, db, "Ana", "Diaz", "100")

	const workers = 12
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		kind := model.PunchEntry
		at := "08:00"
		if i%2 == 1 {
			kind, at = model.PunchExit, "17:00"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.MarkPunch(context.Background(), supervisor(), MarkPunchInput{
				PersonID: p.ID, Date: march(1), Kind: kind, Time: at,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	n, err := s.Records.CountByPersonDate(context.Background(), p.ID, march(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rec, err := s.Records.FindByPersonDate(context.Background(), p.ID, march(1))
	require.NoError(t, err)
	assert.Equal(t, model.StatusComplete, rec.Status)
	assert.Equal(t, 540, rec.TotalMinutes)
}

func TestMarkPunch_Errors(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	p := createPerson(t, db, "Ana", "Diaz", "100")
	other := createPerson(t, db, "Luis", "Paz", "200")
	ctx := context.Background()

	_, err := s.MarkPunch(ctx, supervisor(), MarkPunchInput{PersonID: p.ID, Date: march(1), Kind: model.PunchEntry, Time: "8h"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = s.MarkPunch(ctx, supervisor(), MarkPunchInput{PersonID: p.ID, Date: march(1), Kind: model.PunchEntry, Time: "24:00"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = s.MarkPunch(ctx, supervisor(), MarkPunchInput{PersonID: p.ID, Date: march(1), Kind: "LUNCH", Time: "12:00"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = s.MarkPunch(ctx, supervisor(), MarkPunchInput{PersonID: uuid.New(), Date: march(1), Kind: model.PunchEntry, Time: "08:00"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = s.MarkPunch(ctx, operario(p.ID), MarkPunchInput{PersonID: other.ID, Date: march(1), Kind: model.PunchEntry, Time: "08:00"})
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))

	_, err = s.MarkPunch(ctx, operario(p.ID), MarkPunchInput{PersonID: p.ID, Date: march(1), Kind: model.PunchEntry, Time: "08:00"})
	assert.NoError(t, err)
}

func TestMarkPunch_Observations(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	p := createPerson(t, db, "Ana", "Diaz", "100")
	ctx := context.Background()

	rec, err := s.MarkPunch(ctx, supervisor(), MarkPunchInput{PersonID: p.ID, Date: march(1), Kind: model.PunchEntry, Time: "08:00", Observations: "lluvia"})
	require.NoError(t, err)
	require.NotNil(t, rec.Observations)

	rec, err = s.MarkPunch(ctx, supervisor(), MarkPunchInput{PersonID: p.ID, Date: march(1), Kind: model.PunchExit, Time: "17:00"})
	require.NoError(t, err)
	require.NotNil(t, rec.Observations)
	assert.Equal(t, "lluvia", *rec.Observations)
}

func TestEditRecord(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	p := createPerson(t, db, "Ana", "Diaz", "100")
	other := createPerson(t, db, "Luis", "Paz", "200")
	ctx := context.Background()

	mark(t, s, supervisor(), p.ID, march(1), model.PunchEntry, "08:00")
	rec := mark(t, s, supervisor(), p.ID, march(1), model.PunchExit, "17:00")
	require.Equal(t, model.StatusComplete, rec.Status)

	exit := "18:30"
	edited, err := s.EditRecord(ctx, supervisor(), rec.ID, model.EditPatch{ExitTime: &exit})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEdited, edited.Status)
	assert.Equal(t, "18:30:00", *edited.ExitTime)
	assert.Equal(t, 630, edited.TotalMinutes)
	assert.Equal(t, 150, edited.OvertimeMinutes)

	// EDITED never reverts
	after := mark(t, s, supervisor(), p.ID, march(1), model.PunchExit, "17:00")
	assert.Equal(t, model.StatusEdited, after.Status)
	assert.Equal(t, 540, after.TotalMinutes)

	_, err = s.EditRecord(ctx, supervisor(), uuid.New(), model.EditPatch{})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = s.EditRecord(ctx, operario(other.ID), rec.ID, model.EditPatch{ExitTime: &exit})
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))

	bad := "7pm"
	_, err = s.EditRecord(ctx, supervisor(), rec.ID, model.EditPatch{ExitTime: &bad})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestDeleteRecord(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	p := createPerson(t, db, "Ana", "Diaz", "100")
	other := createPerson(t, db, "Luis", "Paz", "200")
	ctx := context.Background()

	rec := mark(t, s, supervisor(), p.ID, march(1), model.PunchEntry, "08:00")

	err := s.DeleteRecord(ctx, operario(other.ID), rec.ID)
	assert.True(t, apperror.Is(err, apperror.KindPermissionDenied))

	require.NoError(t, s.DeleteRecord(ctx, operario(p.ID), rec.ID))

	err = s.DeleteRecord(ctx, supervisor(), rec.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = s.GetRecord(ctx, supervisor(), rec.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListRecords_OperarioForcedToOwn(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	ana := createPerson(t, db, "Ana", "Diaz", "100")
	luis := createPerson(t, db, "Luis", "Paz", "200")
	ctx := context.Background()

	mark(t, s, supervisor(), ana.ID, march(1), model.PunchEntry, "08:00")
	mark(t, s, supervisor(), luis.ID, march(1), model.PunchEntry, "08:00")
	mark(t, s, supervisor(), luis.ID, march(2), model.PunchEntry, "08:00")

	all, err := s.ListRecords(ctx, supervisor(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onlyLuis, err := s.ListRecords(ctx, supervisor(), ListFilter{PersonID: &luis.ID})
	require.NoError(t, err)
	assert.Len(t, onlyLuis, 2)

	asAna, err := s.ListRecords(ctx, operario(ana.ID), ListFilter{PersonID: &luis.ID})
	require.NoError(t, err)
	require.Len(t, asAna, 1)
	assert.Equal(t, ana.ID, asAna[0].PersonID)

	unlinked, err := s.ListRecords(ctx, policy.Caller{UserID: uuid.New(), Role: constants.RoleOperario}, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, unlinked)

	d := march(2)
	byDate, err := s.ListRecords(ctx, supervisor(), ListFilter{Date: &d})
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	byMonth, err := s.ListRecords(ctx, supervisor(), ListFilter{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Len(t, byMonth, 3)

	_, err = s.ListRecords(ctx, supervisor(), ListFilter{Month: 13, Year: 2024})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestListRecords_DayRangeInclusive(t *testing.T) {
	db := newTestDB(t)
	s := NewAttendanceService(db, 480)
	ana := createPerson(t, db, "Ana", "Diaz", "100")
	luis := createPerson(t, db, "Luis", "Paz", "200")
	ctx := context.Background()

	for d := 1; d <= 5; d++ {
		mark(t, s, supervisor(), ana.ID, march(d), model.PunchEntry, "08:00")
	}
	mark(t, s, supervisor(), luis.ID, march(3), model.PunchEntry, "08:00")

	from, to := march(2), march(4)
	got, err := s.ListRecords(ctx, supervisor(), ListFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = s.ListRecords(ctx, supervisor(), ListFilter{From: &from, To: &to, PersonID: &ana.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, march(4), got[0].Date())
	assert.Equal(t, march(2), got[2].Date())

	// a time of day on hasta still includes that whole day
	late := march(4).Add(23 * time.Hour)
	got, err = s.ListRecords(ctx, supervisor(), ListFilter{From: &from, To: &late, PersonID: &ana.ID})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = s.ListRecords(ctx, supervisor(), ListFilter{From: &to})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListRecords(ctx, supervisor(), ListFilter{To: &from})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	same := march(3)
	got, err = s.ListRecords(ctx, supervisor(), ListFilter{From: &same, To: &same})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.ListRecords(ctx, supervisor(), ListFilter{From: &to, To: &from})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = s.ListRecords(ctx, supervisor(), ListFilter{From: &from, Month: 3, Year: 2024})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	own, err := s.ListRecords(ctx, operario(luis.ID), ListFilter{From: &from, To: &to, PersonID: &ana.ID})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, luis.ID, own[0].PersonID)
}
