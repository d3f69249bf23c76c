// Package policy decides which attendance data a caller may read or change.
package policy

import (
	"github.com/google/uuid"

	"obra360_backend/internals/constants"
	"obra360_backend/internals/helpers/apperror"
)

// Caller is the authenticated actor of one request.
// PersonID is the person linked to the caller's account, nil when none is.
type Caller struct {
	UserID   uuid.UUID
	Role     string
	PersonID *uuid.UUID
}

// Unrestricted reports whether the caller sees every person's records.
func (c Caller) Unrestricted() bool {
	switch constants.NormalizeRole(c.Role) {
	case constants.RoleAdmin, constants.RoleSupervisor:
		return true
	default:
		return false
	}
}

// EffectivePersonFilter returns the person filter a query must use.
// Restricted callers are pinned to their own person whatever they asked for;
// without a linked person they are pinned to uuid.Nil, which matches nothing.
func (c Caller) EffectivePersonFilter(requested *uuid.UUID) *uuid.UUID {
	if c.Unrestricted() {
		return requested
	}
	own := uuid.Nil
	if c.PersonID != nil {
		own = *c.PersonID
	}
	return &own
}

// AuthorizePerson fails with PermissionDenied when the caller may not act on personID.
func (c Caller) AuthorizePerson(personID uuid.UUID) error {
	if c.Unrestricted() {
		return nil
	}
	if c.PersonID == nil || *c.PersonID != personID {
		return apperror.Forbidden("you can only manage your own attendance records")
	}
	return nil
}
