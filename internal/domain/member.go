package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberStatus is the administrative state of a member. It is independent
// of whether the member currently holds a valid membership.
type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberSuspended MemberStatus = "suspended"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberSuspended:
		return true
	}
	return false
}

// Member is a person enrolled at the gym.
type Member struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Email            string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	EmergencyContact string             `bson:"emergencyContact,omitempty" json:"emergencyContact,omitempty"`
	BirthDate        *time.Time         `bson:"birthDate,omitempty" json:"birthDate,omitempty"` // Date only
	PhotoKey         string             `bson:"photoKey,omitempty" json:"-"`                    // S3 object key
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status           MemberStatus       `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// MemberWithMemberships is a member together with its membership history,
// each membership carrying its plan when one is still on record.
type MemberWithMemberships struct {
	Member      Member
	Memberships []MembershipDetails
}
