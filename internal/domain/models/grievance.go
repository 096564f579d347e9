// internal/domain/models/grievance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GrievanceStatus is the lifecycle state of a grievance.
type GrievanceStatus string

const (
	GrievanceOpen       GrievanceStatus = "Open"
	GrievanceInProgress GrievanceStatus = "In Progress" // no producing operation yet
	GrievanceResolved   GrievanceStatus = "Resolved"
)

// Grievance is a complaint a beneficiary files against one of their own cases.
type Grievance struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CaseID      primitive.ObjectID `bson:"case_id" json:"case"`
	Beneficiary primitive.ObjectID `bson:"beneficiary_id" json:"beneficiary"`
	Details     string             `bson:"details" json:"details"`
	Status      GrievanceStatus    `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
