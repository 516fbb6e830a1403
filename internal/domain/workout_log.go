package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseResult captures what a trainee actually performed for one exercise
// of a logged workout (optional detail).
type ExerciseResult struct {
	ExerciseID primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets       int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps       string             `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight     float64            `bson:"weight,omitempty" json:"weight,omitempty"` // kg
}

// WorkoutLog records a completed workout. Logs are created only by the
// trainee who performed the workout and are immutable once written.
type WorkoutLog struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TraineeID    primitive.ObjectID  `bson:"traineeId" json:"traineeId"`
	AssignmentID *primitive.ObjectID `bson:"assignmentId,omitempty" json:"assignmentId,omitempty"` // Ad hoc workouts have none
	TemplateID   primitive.ObjectID  `bson:"templateId" json:"templateId"`
	CompletedAt  time.Time           `bson:"completedAt" json:"completedAt"`
	Duration     int                 `bson:"duration" json:"duration"` // Minutes

	// Exercises of the template the trainee marked as completed.
	CompletedExercises []primitive.ObjectID `bson:"completedExercises" json:"completedExercises"`
	Results            []ExerciseResult     `bson:"results,omitempty" json:"results,omitempty"`
	Notes              string               `bson:"notes,omitempty" json:"notes,omitempty"`
}
