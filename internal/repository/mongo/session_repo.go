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

const sessionCollectionName = "class_sessions"

// mongoSessionRepository implements repository.SessionRepository using MongoDB.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new ClassSession repository backed by MongoDB.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session into the database.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.ClassSession) (primitive.ObjectID, error) {
	if session.ClassID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires classId")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	session.Date = domain.NormalizeScheduleDate(session.StartAt)
	if session.Status == "" {
		session.Status = domain.SessionScheduled
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ClassSession, error) {
	var session domain.ClassSession

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByClassID retrieves all sessions of a class, upcoming first.
func (r *mongoSessionRepository) GetByClassID(ctx context.Context, classID primitive.ObjectID) ([]domain.ClassSession, error) {
	var sessions []domain.ClassSession
	findOptions := options.Find().SetSort(bson.D{{Key: "startAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"classId": classID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update applies a partial patch to a session. Changing StartAt also
// refreshes the derived day-boundary date field.
func (r *mongoSessionRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.SessionUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.StartAt != nil {
		set["startAt"] = *update.StartAt
		set["date"] = domain.NormalizeScheduleDate(*update.StartAt)
	}
	if update.EndAt != nil {
		set["endAt"] = *update.EndAt
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Capacity != nil {
		set["capacity"] = *update.Capacity
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a session.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByClassID removes all sessions referencing a class.
func (r *mongoSessionRepository) DeleteByClassID(ctx context.Context, classID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"classId": classID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureSessionIndexes creates necessary indexes for the class_sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "classId", Value: 1}, {Key: "startAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
