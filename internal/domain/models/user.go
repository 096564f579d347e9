// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a beneficiary, officer, or admin.
//
// NOTE:
//   - Users are created by the identity service on first OTP verification.
//     This service only reads them (cases reference users by _id).
//   - MobileNumber is unique across the collection.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MobileNumber string             `bson:"mobile_number" json:"mobileNumber"`
	Role         Role               `bson:"role" json:"role"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	District     string             `bson:"district,omitempty" json:"district,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
