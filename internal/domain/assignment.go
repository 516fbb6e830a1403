package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for assignment lifecycle
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
	// Paused is accepted on status updates but no flow in this backend sets
	// it on its own.
	AssignmentPaused AssignmentStatus = "paused"
)

// WorkoutAssignment schedules a WorkoutTemplate for a trainee, created by an
// admin. AssignedBy is denormalized for ownership checks and queries.
type WorkoutAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID  primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	TemplateID primitive.ObjectID `bson:"templateId" json:"templateId"`
	AssignedBy primitive.ObjectID `bson:"assignedBy" json:"assignedBy"`
	AssignedAt time.Time          `bson:"assignedAt" json:"assignedAt"`

	// Weekdays the workout is scheduled on, 0 (Sunday) through 6 (Saturday).
	Weekdays  []int            `bson:"weekdays,omitempty" json:"weekdays,omitempty"`
	StartDate time.Time        `bson:"startDate" json:"startDate"`
	EndDate   *time.Time       `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Status    AssignmentStatus `bson:"status" json:"status"`
	Notes     string           `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}
