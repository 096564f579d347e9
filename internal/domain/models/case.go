// internal/domain/models/case.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Case is a relief application filed on behalf of one beneficiary.
//
// Documents and History are owned by the case and embedded in the same
// document, so every write to them is a single-document update.
// History is append-only and its last entry always carries the current Status.
type Case struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseID      string             `bson:"case_id" json:"caseId"` // human-readable, e.g. POA-TN-2025-12345
	Beneficiary primitive.ObjectID `bson:"beneficiary_id" json:"beneficiary"`
	FIRDetails  FIRDetails         `bson:"fir_details" json:"firDetails"`
	Status      CaseStatus         `bson:"status" json:"status"`
	Documents   []CaseDocument     `bson:"documents" json:"documents"`
	History     []HistoryEntry     `bson:"history" json:"history"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// FIRDetails identifies the First Information Report the case stems from.
type FIRDetails struct {
	FIRNumber      string     `bson:"fir_number" json:"firNumber"`
	PoliceStation  string     `bson:"police_station" json:"policeStation"`
	DateOfIncident *time.Time `bson:"date_of_incident,omitempty" json:"dateOfIncident,omitempty"`
}

// CaseDocument is a descriptor for a document attached by the beneficiary.
// Only the descriptor is stored; DocURL holds the name the client supplied.
type CaseDocument struct {
	DocType string `bson:"doc_type" json:"docType"`
	DocURL  string `bson:"doc_url" json:"docUrl"`
}

// HistoryEntry records one status change.
type HistoryEntry struct {
	Status    CaseStatus `bson:"status" json:"status"`
	UpdatedBy string     `bson:"updated_by" json:"updatedBy"`
	Remarks   string     `bson:"remarks" json:"remarks"`
	Timestamp time.Time  `bson:"timestamp" json:"timestamp"`
}

// Standard history remarks.
const (
	RemarkCaseCreated   = "Case created via system."
	RemarkStatusUpdated = "Status updated by officer."
)
