package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles. Values outside this set never
// make it past ParseRole, so capability checks can switch exhaustively.
type Role string

const (
	RoleBeneficiary Role = "beneficiary"
	RoleOfficer     Role = "officer"
	RoleAdmin       Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleBeneficiary, RoleOfficer, RoleAdmin}

// ParseRole converts a raw role string (case-insensitive, trimmed) into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBeneficiary, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
