package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus tracks the lifecycle of a scheduled class occurrence.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// ClassSession is one concrete scheduled occurrence of a Class.
type ClassSession struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClassID primitive.ObjectID `bson:"classId" json:"classId"`
	StartAt time.Time          `bson:"startAt" json:"startAt"`
	EndAt   time.Time          `bson:"endAt" json:"endAt"`
	// Day-boundary timestamp of StartAt, for date-equality lookups alongside
	// the full timestamps.
	Date   int64         `bson:"date" json:"date"`
	Status SessionStatus `bson:"status" json:"status"`

	// Per-occurrence overrides of the parent class, optional.
	Location *string `bson:"location,omitempty" json:"location,omitempty"`
	Capacity *int    `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Notes    string  `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SessionUpdate lists the fields a session update may change.
type SessionUpdate struct {
	StartAt  *time.Time     `json:"startAt,omitempty"`
	EndAt    *time.Time     `json:"endAt,omitempty"`
	Status   *SessionStatus `json:"status,omitempty"`
	Location *string        `json:"location,omitempty"`
	Capacity *int           `json:"capacity,omitempty"`
	Notes    *string        `json:"notes,omitempty"`
}
