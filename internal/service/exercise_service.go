package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"
	"gymworks/studio-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseMediaKind selects which media slot of an exercise an upload
// targets.
type ExerciseMediaKind string

const (
	ExerciseMediaImage ExerciseMediaKind = "image"
	ExerciseMediaVideo ExerciseMediaKind = "video"
)

// ExerciseService manages the exercise library. The library is visible to
// every authenticated user; creating, editing and deleting entries is an
// admin operation guarded by creator ownership.
type ExerciseService interface {
	CreateExercise(ctx context.Context, creatorID primitive.ObjectID, creatorRole domain.Role, exercise domain.Exercise) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	// ListExercises returns the whole library, or only the caller's own
	// entries when ownOnly is set.
	ListExercises(ctx context.Context, callerID primitive.ObjectID, ownOnly bool) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exerciseID primitive.ObjectID, update domain.ExerciseUpdate) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exerciseID primitive.ObjectID) error

	// Media: the backend hands out presigned URLs, the client talks to the
	// object store directly.
	RequestMediaUploadURL(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exerciseID primitive.ObjectID, kind ExerciseMediaKind, contentType string) (uploadURL, objectKey string, err error)
	GetMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID, kind ExerciseMediaKind) (string, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

// CreateExercise adds a new exercise to the library.
func (s *exerciseService) CreateExercise(ctx context.Context, creatorID primitive.ObjectID, creatorRole domain.Role, exercise domain.Exercise) (*domain.Exercise, error) {
	if creatorRole != domain.RoleAdmin && creatorRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}
	if exercise.Name == "" {
		return nil, ErrValidation
	}

	exercise.CreatedBy = creatorID
	exerciseID, err := s.exerciseRepo.Create(ctx, &exercise)
	if err != nil {
		return nil, err
	}

	// Fetch again so repository-set timestamps come back populated.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single exercise. The library has no read-side
// ownership restriction.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// ListExercises retrieves the library, optionally scoped to the caller's own
// entries.
func (s *exerciseService) ListExercises(ctx context.Context, callerID primitive.ObjectID, ownOnly bool) ([]domain.Exercise, error) {
	if ownOnly {
		return s.exerciseRepo.GetByCreatorID(ctx, callerID)
	}
	return s.exerciseRepo.List(ctx)
}

// UpdateExercise applies a partial patch, ensuring creator ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exerciseID primitive.ObjectID, update domain.ExerciseUpdate) (*domain.Exercise, error) {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !domain.AuthorizeScope(callerRole, callerID, existing.CreatedBy) {
		return nil, ErrNotAuthorized
	}
	if update.Name != nil && *update.Name == "" {
		return nil, ErrValidation
	}

	if err := s.exerciseRepo.Update(ctx, exerciseID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// DeleteExercise removes an exercise, ensuring creator ownership. Templates
// that still reference it keep their prescriptions; joined reads skip the
// dangling entry.
func (s *exerciseService) DeleteExercise(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exerciseID primitive.ObjectID) error {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !domain.AuthorizeScope(callerRole, callerID, existing.CreatedBy) {
		return ErrNotAuthorized
	}

	err = s.exerciseRepo.Delete(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	// Best effort: drop orphaned media objects alongside the exercise.
	if s.fileStorage != nil {
		if existing.ImageKey != "" {
			_ = s.fileStorage.DeleteObject(ctx, existing.ImageKey)
		}
		if existing.VideoKey != "" {
			_ = s.fileStorage.DeleteObject(ctx, existing.VideoKey)
		}
	}
	return nil
}

// RequestMediaUploadURL generates a presigned PUT URL for an exercise media
// slot and records the object key on the exercise.
func (s *exerciseService) RequestMediaUploadURL(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exerciseID primitive.ObjectID, kind ExerciseMediaKind, contentType string) (string, string, error) {
	if contentType == "" {
		return "", "", ErrValidation
	}
	if kind != ExerciseMediaImage && kind != ExerciseMediaVideo {
		return "", "", ErrValidation
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	if !domain.AuthorizeScope(callerRole, callerID, existing.CreatedBy) {
		return "", "", ErrNotAuthorized
	}

	objectKey := fmt.Sprintf("exercises/%s/%s/%s", exerciseID.Hex(), kind, uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}

	update := domain.ExerciseUpdate{}
	if kind == ExerciseMediaImage {
		update.ImageKey = &objectKey
	} else {
		update.VideoKey = &objectKey
	}
	if err := s.exerciseRepo.Update(ctx, exerciseID, update); err != nil {
		return "", "", err
	}

	return uploadURL, objectKey, nil
}

// GetMediaDownloadURL resolves an exercise media slot to a presigned GET URL.
func (s *exerciseService) GetMediaDownloadURL(ctx context.Context, exerciseID primitive.ObjectID, kind ExerciseMediaKind) (string, error) {
	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	var objectKey string
	switch kind {
	case ExerciseMediaImage:
		objectKey = existing.ImageKey
	case ExerciseMediaVideo:
		objectKey = existing.VideoKey
	default:
		return "", ErrValidation
	}
	if objectKey == "" {
		return "", ErrNotFound
	}

	return s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, 1*time.Hour)
}
