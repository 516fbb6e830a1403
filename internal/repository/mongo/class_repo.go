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

const classCollectionName = "classes"

// mongoClassRepository implements repository.ClassRepository using MongoDB.
type mongoClassRepository struct {
	collection *mongo.Collection
}

// NewMongoClassRepository creates a new Class repository backed by MongoDB.
func NewMongoClassRepository(db *mongo.Database) repository.ClassRepository {
	return &mongoClassRepository{
		collection: db.Collection(classCollectionName),
	}
}

// Create inserts a new class into the database.
func (r *mongoClassRepository) Create(ctx context.Context, class *domain.Class) (primitive.ObjectID, error) {
	if class.Name == "" || class.InstructorID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("class name and instructor are required")
	}
	if class.Capacity <= 0 {
		return primitive.NilObjectID, errors.New("class capacity must be positive")
	}

	class.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now
	if class.Status == "" {
		class.Status = domain.ClassActive
	}

	result, err := r.collection.InsertOne(ctx, class)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted class ID")
	}
	return insertedID, nil
}

// GetByID retrieves a class by its ID.
func (r *mongoClassRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Class, error) {
	var class domain.Class

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&class)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &class, nil
}

// List retrieves all classes.
func (r *mongoClassRepository) List(ctx context.Context) ([]domain.Class, error) {
	return r.find(ctx, bson.M{})
}

// GetByInstructorID retrieves all classes taught by a specific instructor.
func (r *mongoClassRepository) GetByInstructorID(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Class, error) {
	return r.find(ctx, bson.M{"instructorId": instructorID})
}

// Update applies a partial patch to a class.
func (r *mongoClassRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.ClassUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Level != nil {
		set["level"] = *update.Level
	}
	if update.Capacity != nil {
		set["capacity"] = *update.Capacity
	}
	if update.Duration != nil {
		set["duration"] = *update.Duration
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Schedule != nil {
		set["schedule"] = *update.Schedule
	}
	if update.Status != nil {
		set["status"] = *update.Status
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

// Delete removes a class. Cascading deletion of the class's enrollments and
// sessions is the service layer's responsibility.
func (r *mongoClassRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoClassRepository) find(ctx context.Context, filter bson.M) ([]domain.Class, error) {
	var classes []domain.Class

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return classes, nil
}

// EnsureClassIndexes creates necessary indexes for the classes collection.
func EnsureClassIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "instructorId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
