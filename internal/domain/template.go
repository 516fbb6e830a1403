package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExercisePrescription is one ordered entry of a workout template: which
// exercise to perform and how.
type ExercisePrescription struct {
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets        int                `bson:"sets" json:"sets"`
	Reps        string             `bson:"reps" json:"reps"` // Free-form, e.g. "10-12" or "AMRAP"
	RestSeconds int                `bson:"restSeconds" json:"restSeconds"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// WorkoutTemplate is a reusable workout authored by an admin. Assignments
// reference templates; logs reference both.
type WorkoutTemplate struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	CreatedBy   primitive.ObjectID     `bson:"createdBy" json:"createdBy"`
	Name        string                 `bson:"name" json:"name"`
	Description string                 `bson:"description,omitempty" json:"description,omitempty"`
	Difficulty  string                 `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Duration    int                    `bson:"duration" json:"duration"` // Minutes
	Exercises   []ExercisePrescription `bson:"exercises" json:"exercises"`
	CreatedAt   time.Time              `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time              `bson:"updatedAt" json:"updatedAt"`
}

// TemplateUpdate lists the fields a template update may change. Replacing
// the exercise list replaces it wholesale; there is no per-entry patch.
type TemplateUpdate struct {
	Name        *string                 `json:"name,omitempty"`
	Description *string                 `json:"description,omitempty"`
	Difficulty  *string                 `json:"difficulty,omitempty"`
	Duration    *int                    `json:"duration,omitempty"`
	Exercises   *[]ExercisePrescription `json:"exercises,omitempty"`
}
