package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus for a trainee on a given class date.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Attendance records whether a trainee showed up to a class on a given date.
// The natural key is (classId, traineeId, scheduleDate): marking the same
// triple again patches the existing record instead of inserting a new one.
type Attendance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClassID   primitive.ObjectID `bson:"classId" json:"classId"`
	TraineeID primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	// Day-boundary UTC timestamp in milliseconds. Callers must normalize via
	// NormalizeScheduleDate before lookups, or the natural key fragments into
	// per-time-of-day duplicates.
	ScheduleDate int64              `bson:"scheduleDate" json:"scheduleDate"`
	Status       AttendanceStatus   `bson:"status" json:"status"`
	MarkedAt     time.Time          `bson:"markedAt" json:"markedAt"`
	MarkedBy     primitive.ObjectID `bson:"markedBy" json:"markedBy"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// NormalizeScheduleDate truncates a timestamp to its UTC day boundary and
// returns it as Unix milliseconds, the stored form of Attendance.ScheduleDate.
func NormalizeScheduleDate(t time.Time) int64 {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
}
