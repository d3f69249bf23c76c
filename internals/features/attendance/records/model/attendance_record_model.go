package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	personModel "obra360_backend/internals/features/attendance/persons/model"
)

// AttendanceRecordModel is the single record of one person on one calendar day.
// Entry/exit are canonical "HH:MM:SS" strings; nil means not punched yet.
type AttendanceRecordModel struct {
	ID       uuid.UUID      `gorm:"column:attendance_id;type:uuid;primaryKey" json:"attendance_id"`
	PersonID uuid.UUID      `gorm:"column:attendance_person_id;type:uuid;not null;uniqueIndex:uq_attendance_person_date,priority:1" json:"attendance_person_id"`
	WorkDate datatypes.Date `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_person_date,priority:2;index:idx_attendance_date" json:"attendance_date"`

	EntryTime *string `gorm:"column:attendance_entry_time;type:varchar(8)" json:"attendance_entry_time"`
	ExitTime  *string `gorm:"column:attendance_exit_time;type:varchar(8)" json:"attendance_exit_time"`

	TotalMinutes    int `gorm:"column:attendance_total_minutes;not null;default:0" json:"attendance_total_minutes"`
	NormalMinutes   int `gorm:"column:attendance_normal_minutes;not null;default:0" json:"attendance_normal_minutes"`
	OvertimeMinutes int `gorm:"column:attendance_overtime_minutes;not null;default:0" json:"attendance_overtime_minutes"`

	Observations *string `gorm:"column:attendance_observations;type:text" json:"attendance_observations"`
	Status       Status  `gorm:"column:attendance_status;type:varchar(10);not null" json:"attendance_status"`

	CreatedBy uuid.UUID `gorm:"column:attendance_created_by;type:uuid;not null" json:"attendance_created_by"`
	CreatedAt time.Time `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	UpdatedAt time.Time `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`

	Person *personModel.PersonModel `gorm:"foreignKey:PersonID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	// display name of the account that recorded the first punch; filled on reads
	CreatedByName string `gorm:"-" json:"-"`
}

func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

func (r *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Date returns the work date as a UTC midnight time.
func (r AttendanceRecordModel) Date() time.Time {
	y, m, d := time.Time(r.WorkDate).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r AttendanceRecordModel) HasEntry() bool { return r.EntryTime != nil }
func (r AttendanceRecordModel) HasExit() bool  { return r.ExitTime != nil }
func (r AttendanceRecordModel) IsComplete() bool {
	return r.HasEntry() && r.HasExit()
}
