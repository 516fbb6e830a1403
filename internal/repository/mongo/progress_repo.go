package mongo

import (
	"context"
	"errors"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "progress_measurements"

// mongoProgressRepository implements repository.ProgressRepository.
// Measurements are an append-only log.
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new ProgressMeasurement repository backed by MongoDB.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts a new measurement.
func (r *mongoProgressRepository) Create(ctx context.Context, measurement *domain.ProgressMeasurement) (primitive.ObjectID, error) {
	if measurement.TraineeID == primitive.NilObjectID || measurement.Kind == "" {
		return primitive.NilObjectID, errors.New("measurement requires traineeId and kind")
	}

	measurement.ID = primitive.NewObjectID()
	if measurement.RecordedAt.IsZero() {
		measurement.RecordedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, measurement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted measurement ID")
	}
	return insertedID, nil
}

// GetByTraineeID retrieves all measurements of a trainee, newest first.
func (r *mongoProgressRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.ProgressMeasurement, error) {
	var measurements []domain.ProgressMeasurement
	findOptions := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"traineeId": traineeID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &measurements); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return measurements, nil
}

// EnsureProgressIndexes creates necessary indexes for the progress_measurements collection.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "kind", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
