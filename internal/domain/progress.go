package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MeasurementKind distinguishes the progress entry variants.
type MeasurementKind string

const (
	MeasurementBodyWeight     MeasurementKind = "body_weight"
	MeasurementBodyFat        MeasurementKind = "body_fat"
	MeasurementPersonalRecord MeasurementKind = "personal_record"
	MeasurementCustom         MeasurementKind = "measurement"
)

// ProgressMeasurement is one entry of a trainee's append-only progress log.
// Which payload fields are set depends on Kind; there is no update or delete
// flow for these records.
type ProgressMeasurement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TraineeID primitive.ObjectID `bson:"traineeId" json:"traineeId"`
	Kind      MeasurementKind    `bson:"kind" json:"kind"`

	Weight     *float64            `bson:"weight,omitempty" json:"weight,omitempty"`         // kg, body_weight
	BodyFat    *float64            `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`       // percent, body_fat
	Name       string              `bson:"name,omitempty" json:"name,omitempty"`             // measurement, e.g. "waist"
	Value      *float64            `bson:"value,omitempty" json:"value,omitempty"`           // measurement / personal_record
	Unit       string              `bson:"unit,omitempty" json:"unit,omitempty"`             // measurement, e.g. "cm"
	ExerciseID *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"` // personal_record, optional

	RecordedAt time.Time `bson:"recordedAt" json:"recordedAt"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
}
