package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerMember links a member to the trainer responsible for them.
// A member has at most one link; the memberId index is unique.
type TrainerMember struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
