// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is an entry in the gym-wide exercise catalog.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g. "Chest", "Legs"
	Equipment   string             `bson:"equipment,omitempty" json:"equipment,omitempty"`     // e.g. "Barbell"
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`       // External demo link
	VideoKey    string             `bson:"videoKey,omitempty" json:"-"`                        // Uploaded demo in S3
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// UncategorizedMuscleGroup buckets exercises that have no muscle group.
const UncategorizedMuscleGroup = "Uncategorized"
