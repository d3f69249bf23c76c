package model

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"obra360_backend/internals/constants"
)

var validate = validator.New()

// UserModel is an account that can authenticate against the API.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email" validate:"required,email,max=255"`
	Password  string    `gorm:"not null" json:"-" validate:"required,min=8,max=72"`
	FirstName string    `gorm:"size:100;not null" json:"first_name" validate:"required,max=100"`
	LastName  string    `gorm:"size:100;not null" json:"last_name" validate:"required,max=100"`
	Role      string    `gorm:"type:varchar(20);not null;default:'OPERARIO'" json:"role" validate:"oneof=ADMIN SUPERVISOR OPERARIO"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *UserModel) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// SetDefaultValues normalizes input before validation.
func (u *UserModel) SetDefaultValues() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	if r := constants.NormalizeRole(u.Role); r != "" {
		u.Role = r
	} else if strings.TrimSpace(u.Role) == "" {
		u.Role = constants.RoleOperario
	}
}

func (u *UserModel) Validate() error {
	u.SetDefaultValues()

	if err := validate.Struct(u); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	errorMessages := make(map[string]string)
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			errorMessages[fieldErr.Field()] = fieldErr.Field() + " is required."
		case "email":
			errorMessages[fieldErr.Field()] = "Invalid email format."
		case "min":
			errorMessages[fieldErr.Field()] = fieldErr.Field() + " must be at least " + fieldErr.Param() + " characters."
		case "max":
			errorMessages[fieldErr.Field()] = fieldErr.Field() + " must be at most " + fieldErr.Param() + " characters."
		case "oneof":
			errorMessages[fieldErr.Field()] = fieldErr.Field() + " must be one of " + fieldErr.Param() + "."
		default:
			errorMessages[fieldErr.Field()] = "Invalid format."
		}
	}
	return errors.New(formatErrorMessage(errorMessages))
}

func formatErrorMessage(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+errs[f])
	}
	return strings.Join(parts, "; ")
}
