// File: models/member.go
package models

// Member is one roster entry of the member directory.
type Member struct {
	MembershipNumber string `bson:"membershipNumber" json:"membershipNumber" firestore:"membershipNumber" validate:"required"` // Stable identity
	FullName         string `bson:"fullName" json:"fullName" firestore:"fullName" validate:"required"`
	Group            string `bson:"group" json:"group" firestore:"group" validate:"required"`
	Email            string `bson:"email,omitempty" json:"email,omitempty" firestore:"email,omitempty" validate:"omitempty,email"`
	Phone            string `bson:"phone,omitempty" json:"phone,omitempty" firestore:"phone,omitempty"`
}
