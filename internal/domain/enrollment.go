package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

// ClassEnrollment ties a trainee to a class. Dropping never deletes the
// record; re-enrollment inserts a new one, so the history of a
// (trainee, class) pair is a sequence of rows with at most one active.
type ClassEnrollment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClassID    primitive.ObjectID `bson:"classId" json:"classId"`
	TraineeID  primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	EnrolledAt time.Time          `bson:"enrolledAt" json:"enrolledAt"`
	Status     EnrollmentStatus   `bson:"status" json:"status"`
	DroppedAt  *time.Time         `bson:"droppedAt,omitempty" json:"droppedAt,omitempty"`
}
