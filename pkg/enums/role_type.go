package enums

import (
	"fmt"
	"strings"
)

// RoleType is the stable uppercase discriminator derived from a role's name.
type RoleType string

const (
	RoleTypeSuperAdmin RoleType = "SUPER_ADMIN"
	RoleTypeManager    RoleType = "MANAGER"
	RoleTypeEmployee   RoleType = "EMPLOYEE"
)

// String implements fmt.Stringer.
func (r RoleType) String() string {
	return string(r)
}

// IsValid reports whether the value looks like a derived role type.
func (r RoleType) IsValid() bool {
	if r == "" {
		return false
	}
	for _, ch := range r {
		if (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') && ch != '_' {
			return false
		}
	}
	return true
}

// CanDecideTimeOff reports whether the role type may approve or decline
// time-off requests.
func (r RoleType) CanDecideTimeOff() bool {
	return r == RoleTypeManager || r == RoleTypeSuperAdmin
}

// DeriveRoleType builds the discriminator from a role display name:
// trimmed, uppercased, spaces collapsed to underscores.
func DeriveRoleType(name string) (RoleType, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("role name is required")
	}
	derived := RoleType(strings.ToUpper(strings.Join(strings.Fields(trimmed), "_")))
	if !derived.IsValid() {
		return "", fmt.Errorf("role name %q yields invalid type %q", name, derived)
	}
	return derived, nil
}
