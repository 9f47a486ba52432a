package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipStatus is the stored status of a membership row. It is set when
// the row is created or cancelled and is never flipped automatically when the
// end date passes; temporal state is derived by the lifecycle engine.
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipExpired   MembershipStatus = "expired"
	MembershipCancelled MembershipStatus = "cancelled"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipActive, MembershipExpired, MembershipCancelled:
		return true
	}
	return false
}

// PaymentMethod records how a membership was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}

// MembershipPlan is a sellable plan. Only active plans are offered for new sales.
type MembershipPlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	DurationDays int                `bson:"durationDays" json:"durationDays"` // >= 1
	Price        float64            `bson:"price" json:"price"`               // >= 0
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// Membership is one paid period of a member under a plan. Renewal creates a
// new row; an existing row is never extended in place.
type Membership struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	MemberID      primitive.ObjectID  `bson:"memberId" json:"memberId"`
	PlanID        *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	StartDate     time.Time           `bson:"startDate" json:"startDate"` // Date only, UTC midnight
	EndDate       time.Time           `bson:"endDate" json:"endDate"`     // Date only, UTC midnight
	AmountPaid    float64             `bson:"amountPaid" json:"amountPaid"`
	PaymentMethod PaymentMethod       `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Status        MembershipStatus    `bson:"status" json:"status"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy     *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}

// MembershipDetails is a membership with its plan and member joined in.
// Either side may be nil when the referenced row no longer exists.
type MembershipDetails struct {
	Membership `bson:",inline"`
	Plan       *MembershipPlan `bson:"plan,omitempty" json:"plan,omitempty"`
	Member     *Member         `bson:"member,omitempty" json:"member,omitempty"`
}
