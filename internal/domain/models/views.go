package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRef is a user reference as rendered in API responses. MobileNumber is
// filled only by listings that resolve it.
type UserRef struct {
	ID           primitive.ObjectID `json:"id"`
	MobileNumber string             `json:"mobileNumber,omitempty"`
}

// CaseRef is a case reference as rendered in grievance responses.
type CaseRef struct {
	ID     primitive.ObjectID `json:"id"`
	CaseID string             `json:"caseId,omitempty"`
}

// CaseView is the API representation of a Case.
type CaseView struct {
	ID          primitive.ObjectID `json:"id"`
	CaseID      string             `json:"caseId"`
	Beneficiary UserRef            `json:"beneficiary"`
	FIRDetails  FIRDetails         `json:"firDetails"`
	Status      CaseStatus         `json:"status"`
	Documents   []CaseDocument     `json:"documents"`
	History     []HistoryEntry     `json:"history"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewCaseView builds a CaseView; mobile may be empty.
func NewCaseView(c Case, mobile string) CaseView {
	docs := c.Documents
	if docs == nil {
		docs = []CaseDocument{}
	}
	hist := c.History
	if hist == nil {
		hist = []HistoryEntry{}
	}
	return CaseView{
		ID:          c.ID,
		CaseID:      c.CaseID,
		Beneficiary: UserRef{ID: c.Beneficiary, MobileNumber: mobile},
		FIRDetails:  c.FIRDetails,
		Status:      c.Status,
		Documents:   docs,
		History:     hist,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// GrievanceView is the API representation of a Grievance.
type GrievanceView struct {
	ID          primitive.ObjectID `json:"id"`
	Case        CaseRef            `json:"case"`
	Beneficiary UserRef            `json:"beneficiary"`
	Details     string             `json:"details"`
	Status      GrievanceStatus    `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// NewGrievanceView builds a GrievanceView; caseID and mobile may be empty.
func NewGrievanceView(g Grievance, caseID, mobile string) GrievanceView {
	return GrievanceView{
		ID:          g.ID,
		Case:        CaseRef{ID: g.CaseID, CaseID: caseID},
		Beneficiary: UserRef{ID: g.Beneficiary, MobileNumber: mobile},
		Details:     g.Details,
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
