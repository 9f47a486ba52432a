package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingSession is one logged workout of a member, optionally with a trainer.
type TrainingSession struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID  `bson:"memberId" json:"memberId"`
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	Date      time.Time           `bson:"date" json:"date"` // Date only, UTC midnight
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

// SessionExercise is what was actually done for one exercise in a session.
type SessionExercise struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SessionID     primitive.ObjectID  `bson:"sessionId" json:"sessionId"`
	ExerciseID    *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	SetsCompleted *int                `bson:"setsCompleted,omitempty" json:"setsCompleted,omitempty"`
	RepsCompleted string              `bson:"repsCompleted,omitempty" json:"repsCompleted,omitempty"`
	Weight        *float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	OrderIndex    int                 `bson:"orderIndex" json:"orderIndex"`

	Exercise *Exercise `bson:"exercise,omitempty" json:"exercise,omitempty"` // Joined on read
}

// SessionDetails is a session with member, trainer and ordered exercises.
type SessionDetails struct {
	TrainingSession `bson:",inline"`
	Member          *Member           `bson:"member,omitempty" json:"member,omitempty"`
	Trainer         *Staff            `bson:"trainer,omitempty" json:"trainer,omitempty"`
	Exercises       []SessionExercise `bson:"exercises" json:"exercises"`
}
