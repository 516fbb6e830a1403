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

const attendanceCollectionName = "attendance"

// mongoAttendanceRepository implements repository.AttendanceRepository using MongoDB.
type mongoAttendanceRepository struct {
	collection *mongo.Collection
}

// NewMongoAttendanceRepository creates a new Attendance repository backed by MongoDB.
func NewMongoAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{
		collection: db.Collection(attendanceCollectionName),
	}
}

// Create inserts a new attendance record. The unique index on the natural
// key turns a concurrent double-mark into ErrDuplicate instead of a second row.
func (r *mongoAttendanceRepository) Create(ctx context.Context, attendance *domain.Attendance) (primitive.ObjectID, error) {
	if attendance.ClassID == primitive.NilObjectID || attendance.TraineeID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("attendance requires classId and traineeId")
	}
	if attendance.ScheduleDate == 0 {
		return primitive.NilObjectID, errors.New("attendance requires a schedule date")
	}

	attendance.ID = primitive.NewObjectID()
	attendance.MarkedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, attendance)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted attendance ID")
	}
	return insertedID, nil
}

// FindByKey looks up the record for (class, trainee, scheduleDate).
func (r *mongoAttendanceRepository) FindByKey(ctx context.Context, classID, traineeID primitive.ObjectID, scheduleDate int64) (*domain.Attendance, error) {
	var attendance domain.Attendance
	filter := bson.M{
		"classId":      classID,
		"traineeId":    traineeID,
		"scheduleDate": scheduleDate,
	}

	err := r.collection.FindOne(ctx, filter).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &attendance, nil
}

// Patch updates an existing record in place (re-mark of the same natural
// key) and refreshes markedAt.
func (r *mongoAttendanceRepository) Patch(ctx context.Context, id primitive.ObjectID, status domain.AttendanceStatus, notes string, markedBy primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"status":   status,
			"notes":    notes,
			"markedBy": markedBy,
			"markedAt": time.Now().UTC(),
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

// GetByClassID retrieves all attendance records of a class, newest first.
func (r *mongoAttendanceRepository) GetByClassID(ctx context.Context, classID primitive.ObjectID) ([]domain.Attendance, error) {
	return r.find(ctx, bson.M{"classId": classID})
}

// GetByTraineeID retrieves all attendance records of a trainee, newest first.
func (r *mongoAttendanceRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Attendance, error) {
	return r.find(ctx, bson.M{"traineeId": traineeID})
}

func (r *mongoAttendanceRepository) find(ctx context.Context, filter bson.M) ([]domain.Attendance, error) {
	var records []domain.Attendance
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduleDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureAttendanceIndexes creates necessary indexes for the attendance collection.
func EnsureAttendanceIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The natural key. Unique so concurrent marking cannot create
			// duplicate rows for the same (trainee, class, date).
			Keys: bson.D{
				{Key: "classId", Value: 1},
				{Key: "traineeId", Value: 1},
				{Key: "scheduleDate", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}, {Key: "scheduleDate", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
