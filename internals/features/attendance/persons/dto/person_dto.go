package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"obra360_backend/internals/features/attendance/persons/model"
)

// ============================
// Request DTOs
// ============================

type CreatePersonRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	DNI       string  `json:"dni" validate:"required,max=20"`
	IsActive  *bool   `json:"is_active"`
	UserID    *string `json:"user_id" validate:"omitempty,uuid"`
}

func (r *CreatePersonRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.DNI = strings.TrimSpace(r.DNI)
}

func (r *CreatePersonRequest) ToModel() model.PersonModel {
	m := model.PersonModel{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		DNI:       r.DNI,
		IsActive:  true,
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	if r.UserID != nil {
		if id, err := uuid.Parse(strings.TrimSpace(*r.UserID)); err == nil {
			m.UserID = &id
		}
	}
	return m
}

// UpdatePersonRequest is a partial update; nil fields are left untouched.
// An empty user_id unlinks the account.
type UpdatePersonRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	DNI       *string `json:"dni" validate:"omitempty,min=1,max=20"`
	IsActive  *bool   `json:"is_active"`
	UserID    *string `json:"user_id" validate:"omitempty,uuid"`
}

func (r *UpdatePersonRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(r.FirstName)
	trim(r.LastName)
	trim(r.DNI)
	trim(r.UserID)
}

// ApplyTo returns the column updates for the non-nil fields.
func (r *UpdatePersonRequest) ApplyTo(m *model.PersonModel) map[string]any {
	updates := map[string]any{}
	if r.FirstName != nil {
		m.FirstName = *r.FirstName
		updates["person_first_name"] = m.FirstName
	}
	if r.LastName != nil {
		m.LastName = *r.LastName
		updates["person_last_name"] = m.LastName
	}
	if r.DNI != nil {
		m.DNI = *r.DNI
		updates["person_dni"] = m.DNI
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
		updates["person_is_active"] = m.IsActive
	}
	if r.UserID != nil {
		if *r.UserID == "" {
			m.UserID = nil
			updates["person_user_id"] = nil
		} else if id, err := uuid.Parse(*r.UserID); err == nil {
			m.UserID = &id
			updates["person_user_id"] = id
		}
	}
	return updates
}

// ============================
// Response DTO
// ============================

type PersonDTO struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Name      string    `json:"name"`
	DNI       string    `json:"dni"`
	IsActive  bool      `json:"is_active"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToPersonDTO(m model.PersonModel) PersonDTO {
	out := PersonDTO{
		ID:        m.ID.String(),
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Name:      m.DisplayName(),
		DNI:       m.DNI,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.UserID != nil {
		s := m.UserID.String()
		out.UserID = &s
	}
	return out
}

func ToPersonDTOs(ms []model.PersonModel) []PersonDTO {
	out := make([]PersonDTO, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToPersonDTO(m))
	}
	return out
}
