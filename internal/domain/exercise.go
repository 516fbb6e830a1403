package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels used by exercises, templates and classes.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// Exercise represents a single exercise definition in the library.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"` // Admin who created this exercise
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"` // e.g., "Strength", "Cardio"
	Difficulty  string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Muscles     []string           `bson:"muscles,omitempty" json:"muscles,omitempty"` // Primary muscle labels
	Equipment   string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// Optional media stored in object storage; keys resolve to presigned URLs
	// on demand, they are never public URLs themselves.
	ImageKey string `bson:"imageKey,omitempty" json:"imageKey,omitempty"`
	VideoKey string `bson:"videoKey,omitempty" json:"videoKey,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseUpdate lists the fields an exercise update may change.
type ExerciseUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Difficulty  *string   `json:"difficulty,omitempty"`
	Muscles     *[]string `json:"muscles,omitempty"`
	Equipment   *string   `json:"equipment,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageKey    *string   `json:"imageKey,omitempty"`
	VideoKey    *string   `json:"videoKey,omitempty"`
}
