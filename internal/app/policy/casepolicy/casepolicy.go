// Package casepolicy provides authorization policies for the case workflow.
//
// Authorization rules:
//   - Officers and admins can create cases, promote them, list every case,
//     list open grievances, resolve grievances, and read dashboard counts
//   - Only a case's own beneficiary can attach documents to it
//   - Any authenticated caller can list their own cases and grievances and
//     file a grievance against their own case
//   - Unknown capabilities are denied
package casepolicy

import (
	"github.com/dalemusser/nyaysahayak/internal/app/system/apperr"
	"github.com/dalemusser/nyaysahayak/internal/app/system/auth"
	"github.com/dalemusser/nyaysahayak/internal/app/system/authz"
	"github.com/dalemusser/nyaysahayak/internal/domain/models"
)

// Capability names an operation gated by role.
type Capability int

const (
	CreateCase Capability = iota + 1
	PromoteCase
	ListAllCases
	ListOpenGrievances
	ResolveGrievance
	ViewDashboard
	ListOwnCases
	FileGrievance
	ViewAuditLog
)

// Denied messages returned to clients.
const (
	MsgAccessDenied = "Forbidden: Access denied."
	MsgOnlyOfficers = "Forbidden: Only officers can create cases."
	MsgNotCaseOwner = "Forbidden: You are not the beneficiary of this case."
)

// Allowed reports whether role holds capability.
func Allowed(role models.Role, c Capability) bool {
	switch c {
	case CreateCase, PromoteCase, ListAllCases, ListOpenGrievances, ResolveGrievance, ViewDashboard:
		return authz.IsOfficerOrAdmin(role)
	case ListOwnCases, FileGrievance:
		return role.Valid()
	case ViewAuditLog:
		return role == models.RoleAdmin
	default:
		return false
	}
}

// Authorize returns a Forbidden error when caller lacks capability.
func Authorize(caller auth.Identity, c Capability) error {
	if Allowed(caller.Role, c) {
		return nil
	}
	if c == CreateCase {
		return apperr.Forbidden(MsgOnlyOfficers)
	}
	return apperr.Forbidden(MsgAccessDenied)
}

// CanAttachDocument returns a Forbidden error unless caller owns c.
func CanAttachDocument(caller auth.Identity, c models.Case) error {
	if !authz.IsCaseBeneficiary(c, caller.UserID) {
		return apperr.Forbidden(MsgNotCaseOwner)
	}
	return nil
}
