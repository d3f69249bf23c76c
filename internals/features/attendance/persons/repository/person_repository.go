package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"obra360_backend/internals/features/attendance/persons/model"
)

type PersonRepository struct {
	DB *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

type ListFilter struct {
	IncludeInactive bool
	// OnlyID narrows the list to one person (restricted callers).
	OnlyID *uuid.UUID
	Limit  int
	Offset int
}

func (r *PersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PersonModel, error) {
	var p model.PersonModel
	if err := r.DB.WithContext(ctx).Where("person_id = ?", id).Take(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByUserID returns the person linked to a user account, or nil when none is linked.
func (r *PersonRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.PersonModel, error) {
	var p model.PersonModel
	err := r.DB.WithContext(ctx).Where("person_user_id = ?", userID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PersonRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&model.PersonModel{}).Where("person_id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PersonRepository) List(ctx context.Context, f ListFilter) ([]model.PersonModel, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.PersonModel{})
	if !f.IncludeInactive {
		q = q.Where("person_is_active = ?", true)
	}
	if f.OnlyID != nil {
		q = q.Where("person_id = ?", *f.OnlyID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []model.PersonModel
	q = q.Order("person_last_name ASC").Order("person_first_name ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PersonRepository) Create(ctx context.Context, p *model.PersonModel) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *PersonRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.DB.WithContext(ctx).Model(&model.PersonModel{}).Where("person_id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
