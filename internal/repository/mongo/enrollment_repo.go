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

const enrollmentCollectionName = "class_enrollments"

// mongoEnrollmentRepository implements repository.EnrollmentRepository using MongoDB.
type mongoEnrollmentRepository struct {
	collection *mongo.Collection
}

// NewMongoEnrollmentRepository creates a new ClassEnrollment repository backed by MongoDB.
func NewMongoEnrollmentRepository(db *mongo.Database) repository.EnrollmentRepository {
	return &mongoEnrollmentRepository{
		collection: db.Collection(enrollmentCollectionName),
	}
}

// Create inserts a new enrollment row. Drops never delete rows, so the
// history of a (class, trainee) pair accumulates here.
func (r *mongoEnrollmentRepository) Create(ctx context.Context, enrollment *domain.ClassEnrollment) (primitive.ObjectID, error) {
	if enrollment.ClassID == primitive.NilObjectID || enrollment.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("enrollment requires classId and traineeId")
	}

	enrollment.ID = primitive.NewObjectID()
	enrollment.EnrolledAt = time.Now().UTC()
	if enrollment.Status == "" {
		enrollment.Status = domain.EnrollmentActive
	}

	result, err := r.collection.InsertOne(ctx, enrollment)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted enrollment ID")
	}
	return insertedID, nil
}

// FindActive returns the active enrollment for a (class, trainee) pair.
func (r *mongoEnrollmentRepository) FindActive(ctx context.Context, classID, traineeID primitive.ObjectID) (*domain.ClassEnrollment, error) {
	var enrollment domain.ClassEnrollment
	filter := bson.M{
		"classId":   classID,
		"traineeId": traineeID,
		"status":    domain.EnrollmentActive,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&enrollment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// CountActiveByClassID counts the active enrollments of a class (the value
// compared against Class.Capacity at enroll time).
func (r *mongoEnrollmentRepository) CountActiveByClassID(ctx context.Context, classID primitive.ObjectID) (int64, error) {
	filter := bson.M{"classId": classID, "status": domain.EnrollmentActive}
	return r.collection.CountDocuments(ctx, filter)
}

// GetByClassID retrieves all enrollment rows of a class.
func (r *mongoEnrollmentRepository) GetByClassID(ctx context.Context, classID primitive.ObjectID) ([]domain.ClassEnrollment, error) {
	return r.find(ctx, bson.M{"classId": classID}, nil)
}

// GetByTraineeID retrieves all enrollment rows of a trainee, newest first.
func (r *mongoEnrollmentRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.ClassEnrollment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "enrolledAt", Value: -1}})
	return r.find(ctx, bson.M{"traineeId": traineeID}, findOptions)
}

// MarkDropped transitions an enrollment to dropped and stamps droppedAt.
func (r *mongoEnrollmentRepository) MarkDropped(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"status":    domain.EnrollmentDropped,
			"droppedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByClassID removes all enrollment rows referencing a class.
func (r *mongoEnrollmentRepository) DeleteByClassID(ctx context.Context, classID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"classId": classID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *mongoEnrollmentRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.ClassEnrollment, error) {
	var enrollments []domain.ClassEnrollment

	var cursor *mongo.Cursor
	var err error
	if findOptions != nil {
		cursor, err = r.collection.Find(ctx, filter, findOptions)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// EnsureEnrollmentIndexes creates necessary indexes for the class_enrollments collection.
func EnsureEnrollmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Active lookups and capacity counts filter on (classId, status).
			Keys:    bson.D{{Key: "classId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "enrolledAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
