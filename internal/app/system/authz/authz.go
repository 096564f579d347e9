// internal/app/system/authz/authz.go
package authz

import (
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsOfficerOrAdmin reports whether role may run officer operations
// (case creation, promotion, listings, grievance resolution).
func IsOfficerOrAdmin(role models.Role) bool {
	switch role {
	case models.RoleOfficer, models.RoleAdmin:
		return true
	case models.RoleBeneficiary:
		return false
	default:
		return false
	}
}

// IsCaseBeneficiary reports whether callerID owns c.
func IsCaseBeneficiary(c models.Case, callerID primitive.ObjectID) bool {
	return !callerID.IsZero() && c.Beneficiary == callerID
}
