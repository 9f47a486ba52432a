// internal/domain/routine.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// RoutineTemplate is a reusable workout a trainer can hand to members.
type RoutineTemplate struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty  Difficulty          `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	CreatedBy   *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// RoutineTemplateExercise is one ordered line of a routine template.
type RoutineTemplateExercise struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TemplateID  primitive.ObjectID  `bson:"templateId" json:"templateId"`
	ExerciseID  *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"`
	Sets        *int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        string              `bson:"reps,omitempty" json:"reps,omitempty"` // Free text, e.g. "8-12"
	RestSeconds *int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	OrderIndex  int                 `bson:"orderIndex" json:"orderIndex"`
	Notes       string              `bson:"notes,omitempty" json:"notes,omitempty"`

	Exercise *Exercise `bson:"exercise,omitempty" json:"exercise,omitempty"` // Joined on read
}

// RoutineWithExercises is a template plus its lines sorted by OrderIndex.
type RoutineWithExercises struct {
	RoutineTemplate `bson:",inline"`
	Exercises       []RoutineTemplateExercise `bson:"exercises" json:"exercises"`
}
