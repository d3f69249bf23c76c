package constants

import (
	"fmt"
	"strings"
)

const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleOperario   = "OPERARIO"
)

// Role error message templates
const (
	ErrOnlyAdminsCanAccess      = "Only ADMIN users can access %s."
	ErrOnlySupervisorsCanAccess = "Only SUPERVISOR or ADMIN users can access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSupervisor(feature string) string {
	return fmt.Sprintf(ErrOnlySupervisorsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleSupervisor,
		RoleOperario,
	}

	SupervisorAndAbove = []string{
		RoleAdmin,
		RoleSupervisor,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

// NormalizeRole upper-cases and trims; unknown values come back empty.
func NormalizeRole(role string) string {
	r := strings.ToUpper(strings.TrimSpace(role))
	for _, known := range AllRoles {
		if r == known {
			return r
		}
	}
	return ""
}
