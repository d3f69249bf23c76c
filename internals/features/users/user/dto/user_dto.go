package dto

import (
	"strings"

	"obra360_backend/internals/constants"
)

// UpdateRoleRequest is the body of PATCH /api/users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN SUPERVISOR OPERARIO"`
}

func (r *UpdateRoleRequest) Normalize() {
	if n := constants.NormalizeRole(r.Role); n != "" {
		r.Role = n
	} else {
		r.Role = strings.TrimSpace(r.Role)
	}
}
