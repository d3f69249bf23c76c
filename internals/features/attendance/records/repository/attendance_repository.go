// file: internals/features/attendance/records/repository/attendance_repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"obra360_backend/internals/features/attendance/records/model"
	userModel "obra360_backend/internals/features/users/user/model"
	"obra360_backend/internals/helpers/apperror"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Mutator changes a locked record in place. Returning an error aborts the tx.
type Mutator func(rec *model.AttendanceRecordModel) error

var uniquePersonDate = clause.OnConflict{
	Columns: []clause.Column{
		{Name: "attendance_person_id"},
		{Name: "attendance_date"},
	},
	DoNothing: true,
}

/* ===============================
   Upsert
=================================*/

// Upsert stores seed when (person, date) has no record yet; otherwise it
// applies mutate to the existing row under a row lock. seed must already
// carry the effect of mutate.
//
// The unique index decides who creates the row. A unique violation on the
// insert (drivers that do not honour ON CONFLICT for this index) is retried
// once as an update; a row that vanished before it could be locked is
// retried once as an insert.
func (r *AttendanceRepository) Upsert(ctx context.Context, seed *model.AttendanceRecordModel, mutate Mutator) (*model.AttendanceRecordModel, error) {
	created, err := r.insertIfAbsent(ctx, seed)
	if err != nil && !apperror.IsUniqueViolation(err) {
		return nil, err
	}
	if created {
		return seed, nil
	}

	rec, err := r.updateByPersonDate(ctx, seed.PersonID, seed.WorkDate, mutate)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, err
	}

	seed.ID = uuid.Nil
	created, err = r.insertIfAbsent(ctx, seed)
	if err == nil && created {
		return seed, nil
	}
	if err != nil && !apperror.IsUniqueViolation(err) {
		return nil, err
	}
	return nil, apperror.Conflict("attendance record was modified concurrently, please retry")
}

func (r *AttendanceRepository) insertIfAbsent(ctx context.Context, rec *model.AttendanceRecordModel) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(uniquePersonDate).Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AttendanceRepository) updateByPersonDate(ctx context.Context, personID uuid.UUID, date datatypes.Date, mutate Mutator) (*model.AttendanceRecordModel, error) {
	var out model.AttendanceRecordModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("attendance_person_id = ? AND attendance_date = ?", personID, date).
			Take(&out).Error; err != nil {
			return err
		}
		if err := mutate(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateByID locks the record, applies mutate and saves it.
func (r *AttendanceRepository) UpdateByID(ctx context.Context, id uuid.UUID, mutate Mutator) (*model.AttendanceRecordModel, error) {
	var out model.AttendanceRecordModel
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("attendance_id = ?", id).
			Take(&out).Error; err != nil {
			return err
		}
		if err := mutate(&out); err != nil {
			return err
		}
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* ===============================
   Reads
=================================*/

func (r *AttendanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AttendanceRecordModel, error) {
	var rec model.AttendanceRecordModel
	if err := r.DB.WithContext(ctx).Preload("Person").Where("attendance_id = ?", id).Take(&rec).Error; err != nil {
		return nil, err
	}
	out := []model.AttendanceRecordModel{rec}
	if err := r.fillCreators(ctx, out); err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (r *AttendanceRepository) FindByPersonDate(ctx context.Context, personID uuid.UUID, date time.Time) (*model.AttendanceRecordModel, error) {
	var rec model.AttendanceRecordModel
	if err := r.DB.WithContext(ctx).
		Where("attendance_person_id = ? AND attendance_date = ?", personID, datatypes.Date(date)).
		Take(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListFilter: zero values mean "no restriction". From/To is half-open.
type ListFilter struct {
	PersonID *uuid.UUID
	Date     *time.Time
	From     *time.Time
	To       *time.Time
}

// List orders by date DESC, then creation order.
func (r *AttendanceRepository) List(ctx context.Context, f ListFilter) ([]model.AttendanceRecordModel, error) {
	q := r.DB.WithContext(ctx).Model(&model.AttendanceRecordModel{}).Preload("Person")
	if f.PersonID != nil {
		q = q.Where("attendance_person_id = ?", *f.PersonID)
	}
	if f.Date != nil {
		q = q.Where("attendance_date = ?", datatypes.Date(*f.Date))
	}
	if f.From != nil {
		q = q.Where("attendance_date >= ?", datatypes.Date(*f.From))
	}
	if f.To != nil {
		q = q.Where("attendance_date < ?", datatypes.Date(*f.To))
	}

	var out []model.AttendanceRecordModel
	if err := q.
		Order("attendance_date DESC").
		Order("attendance_created_at ASC").
		Order("attendance_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	if err := r.fillCreators(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fillCreators sets CreatedByName from the users table. Records whose
// creator account no longer exists keep an empty name.
func (r *AttendanceRepository) fillCreators(ctx context.Context, recs []model.AttendanceRecordModel) error {
	if len(recs) == 0 {
		return nil
	}
	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0, len(recs))
	for _, rec := range recs {
		if _, ok := seen[rec.CreatedBy]; !ok && rec.CreatedBy != uuid.Nil {
			seen[rec.CreatedBy] = struct{}{}
			ids = append(ids, rec.CreatedBy)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var users []userModel.UserModel
	if err := r.DB.WithContext(ctx).
		Select("id", "first_name", "last_name").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName()
	}
	for i := range recs {
		recs[i].CreatedByName = names[recs[i].CreatedBy]
	}
	return nil
}

// CountByPersonDate is 0 or 1 while the unique index holds.
func (r *AttendanceRepository) CountByPersonDate(ctx context.Context, personID uuid.UUID, date time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.AttendanceRecordModel{}).
		Where("attendance_person_id = ? AND attendance_date = ?", personID, datatypes.Date(date)).
		Count(&n).Error
	return n, err
}

/* ===============================
   Delete
=================================*/

func (r *AttendanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("attendance_id = ?", id).Delete(&model.AttendanceRecordModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
