package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PersonModel is an employee whose attendance is tracked.
type PersonModel struct {
	ID        uuid.UUID  `gorm:"column:person_id;type:uuid;primaryKey" json:"person_id"`
	FirstName string     `gorm:"column:person_first_name;size:100;not null" json:"person_first_name"`
	LastName  string     `gorm:"column:person_last_name;size:100;not null" json:"person_last_name"`
	DNI       string     `gorm:"column:person_dni;size:20;not null;uniqueIndex:uq_persons_dni" json:"person_dni"`
	IsActive  bool       `gorm:"column:person_is_active;not null" json:"person_is_active"`
	UserID    *uuid.UUID `gorm:"column:person_user_id;type:uuid;uniqueIndex:uq_persons_user_id" json:"person_user_id,omitempty"`
	CreatedAt time.Time  `gorm:"column:person_created_at;autoCreateTime" json:"person_created_at"`
	UpdatedAt time.Time  `gorm:"column:person_updated_at;autoUpdateTime" json:"person_updated_at"`
}

func (PersonModel) TableName() string {
	return "persons"
}

func (p *PersonModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DisplayName is "first last".
func (p PersonModel) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
