package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClassStatus tracks whether a class accepts enrollments. Deactivation is
// preferred over hard deletion.
type ClassStatus string

const (
	ClassActive   ClassStatus = "active"
	ClassInactive ClassStatus = "inactive"
)

// Class is a recurring group class definition (e.g. "Monday HIIT"). Concrete
// occurrences are ClassSessions.
type Class struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Type         string             `bson:"type,omitempty" json:"type,omitempty"` // e.g., "Yoga", "HIIT"
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Level        string             `bson:"level,omitempty" json:"level,omitempty"`
	Capacity     int                `bson:"capacity" json:"capacity"` // Max active enrollments
	Duration     int                `bson:"duration" json:"duration"` // Minutes
	InstructorID primitive.ObjectID `bson:"instructorId" json:"instructorId"`
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	Schedule     string             `bson:"schedule,omitempty" json:"schedule,omitempty"` // Display label, e.g. "Mon/Wed 18:00"
	Status       ClassStatus        `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ClassUpdate lists the fields a class update may change.
type ClassUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Type        *string      `json:"type,omitempty"`
	Description *string      `json:"description,omitempty"`
	Level       *string      `json:"level,omitempty"`
	Capacity    *int         `json:"capacity,omitempty"`
	Duration    *int         `json:"duration,omitempty"`
	Location    *string      `json:"location,omitempty"`
	Schedule    *string      `json:"schedule,omitempty"`
	Status      *ClassStatus `json:"status,omitempty"`
}
