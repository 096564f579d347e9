package models

import "errors"

// CaseStatus is the workflow state of a case.
type CaseStatus string

const (
	StatusCaseRegistered      CaseStatus = "Case Registered"
	StatusVerificationPending CaseStatus = "Verification Pending"
	StatusSanctionPending     CaseStatus = "Sanction Pending"
	StatusDisbursed           CaseStatus = "Disbursed"
	StatusRejected            CaseStatus = "Rejected"
)

// OrderedStatuses is the promotion sequence. Rejected is deliberately absent:
// it is a terminal side-branch that promotion never produces or leaves.
var OrderedStatuses = []CaseStatus{
	StatusCaseRegistered,
	StatusVerificationPending,
	StatusSanctionPending,
	StatusDisbursed,
}

var (
	// ErrFinalStage is returned when promoting a case that is already Disbursed.
	ErrFinalStage = errors.New("case is already at the final stage")
	// ErrNotPromotable is returned when the status is outside the promotion sequence.
	ErrNotPromotable = errors.New("case status is not part of the promotion sequence")
)

// Valid reports whether s is a known case status.
func (s CaseStatus) Valid() bool {
	return s == StatusRejected || s.Index() >= 0
}

// Index returns the position of s in OrderedStatuses, or -1.
func (s CaseStatus) Index() int {
	for i, st := range OrderedStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the status that follows s in the promotion sequence.
func (s CaseStatus) Next() (CaseStatus, error) {
	i := s.Index()
	switch {
	case i < 0:
		return "", ErrNotPromotable
	case i == len(OrderedStatuses)-1:
		return "", ErrFinalStage
	}
	return OrderedStatuses[i+1], nil
}

// Final reports whether no further promotion is possible from s.
func (s CaseStatus) Final() bool {
	_, err := s.Next()
	return err != nil
}
