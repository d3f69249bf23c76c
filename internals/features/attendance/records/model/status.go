package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"obra360_backend/internals/helpers/worktime"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusComplete Status = "COMPLETE"
	StatusEdited   Status = "EDITED"
)

type PunchKind string

const (
	PunchEntry PunchKind = "ENTRY"
	PunchExit  PunchKind = "EXIT"
)

// ParsePunchKind accepts entrada/salida as well as entry/exit, any case.
func ParsePunchKind(s string) (PunchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "entry":
		return PunchEntry, nil
	case "salida", "exit":
		return PunchExit, nil
	}
	return "", fmt.Errorf("unknown punch kind %q (expected entrada or salida)", s)
}

// StatusAfterPunch: EDITED is terminal, otherwise COMPLETE iff both punches are set.
func StatusAfterPunch(current Status, hasEntry, hasExit bool) Status {
	if current == StatusEdited {
		return StatusEdited
	}
	if hasEntry && hasExit {
		return StatusComplete
	}
	return StatusPending
}

// NewRecord is the empty PENDING record for (person, date).
func NewRecord(personID uuid.UUID, date datatypes.Date, actor uuid.UUID) *AttendanceRecordModel {
	return &AttendanceRecordModel{
		PersonID:  personID,
		WorkDate:  date,
		Status:    StatusPending,
		CreatedBy: actor,
	}
}

// Recompute refreshes the derived minutes; a missing side yields zeros.
func (r *AttendanceRecordModel) Recompute(threshold int) error {
	h, err := worktime.Compute(r.EntryTime, r.ExitTime, threshold)
	if err != nil {
		return err
	}
	r.TotalMinutes = h.Total
	r.NormalMinutes = h.Normal
	r.OvertimeMinutes = h.Overtime
	return nil
}

// ApplyPunch sets one side (last write wins) and advances the status.
// A non-empty observation replaces the stored one.
func (r *AttendanceRecordModel) ApplyPunch(kind PunchKind, at worktime.Tod, observations string, threshold int) error {
	v := at.String()
	switch kind {
	case PunchEntry:
		r.EntryTime = &v
	case PunchExit:
		r.ExitTime = &v
	default:
		return fmt.Errorf("unknown punch kind %q", kind)
	}
	if obs := strings.TrimSpace(observations); obs != "" {
		r.Observations = &obs
	}
	if err := r.Recompute(threshold); err != nil {
		return err
	}
	r.Status = StatusAfterPunch(r.Status, r.HasEntry(), r.HasExit())
	return nil
}

// EditPatch carries a manual correction. Nil leaves a field as is;
// an empty entry/exit clears that punch, an empty observation clears it too.
type EditPatch struct {
	EntryTime    *string
	ExitTime     *string
	Observations *string
}

// ApplyEdit overwrites the supplied fields and moves the record to EDITED.
func (r *AttendanceRecordModel) ApplyEdit(p EditPatch, threshold int) error {
	entry, err := patchTime(r.EntryTime, p.EntryTime)
	if err != nil {
		return err
	}
	exit, err := patchTime(r.ExitTime, p.ExitTime)
	if err != nil {
		return err
	}
	r.EntryTime, r.ExitTime = entry, exit

	if p.Observations != nil {
		if obs := strings.TrimSpace(*p.Observations); obs != "" {
			r.Observations = &obs
		} else {
			r.Observations = nil
		}
	}
	if err := r.Recompute(threshold); err != nil {
		return err
	}
	r.Status = StatusEdited
	return nil
}

func patchTime(current, patch *string) (*string, error) {
	if patch == nil {
		return current, nil
	}
	s := strings.TrimSpace(*patch)
	if s == "" {
		return nil, nil
	}
	t, err := worktime.Parse(s)
	if err != nil {
		return nil, err
	}
	v := t.String()
	return &v, nil
}
