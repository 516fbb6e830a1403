package service

import (
	"context"
	"errors"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutLogDetail joins a log with its template. A deleted template leaves
// the pointer nil.
type WorkoutLogDetail struct {
	Log      domain.WorkoutLog       `json:"log"`
	Template *domain.WorkoutTemplate `json:"template,omitempty"`
}

// WorkoutService covers the trainee-side flows: logging completed workouts
// and recording progress measurements. Both collections are append-only.
type WorkoutService interface {
	// LogWorkout records a completed workout for the calling trainee. Logs
	// are immutable once written.
	LogWorkout(ctx context.Context, traineeID primitive.ObjectID, log domain.WorkoutLog) (*domain.WorkoutLog, error)
	// GetHistory returns a trainee's logs, newest first, scoped by caller.
	GetHistory(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]WorkoutLogDetail, error)

	RecordMeasurement(ctx context.Context, traineeID primitive.ObjectID, measurement domain.ProgressMeasurement) (*domain.ProgressMeasurement, error)
	GetMeasurements(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]domain.ProgressMeasurement, error)
}

type workoutService struct {
	logRepo        repository.WorkoutLogRepository
	progressRepo   repository.ProgressRepository
	templateRepo   repository.TemplateRepository
	assignmentRepo repository.AssignmentRepository
	userRepo       repository.UserRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	logRepo repository.WorkoutLogRepository,
	progressRepo repository.ProgressRepository,
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
	userRepo repository.UserRepository,
) WorkoutService {
	return &workoutService{
		logRepo:        logRepo,
		progressRepo:   progressRepo,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
	}
}

// LogWorkout records a completed workout.
func (s *workoutService) LogWorkout(ctx context.Context, traineeID primitive.ObjectID, log domain.WorkoutLog) (*domain.WorkoutLog, error) {
	if log.Duration <= 0 {
		return nil, ErrValidation
	}

	// The template must still exist at logging time.
	if _, err := s.templateRepo.GetByID(ctx, log.TemplateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// When the log claims an assignment, it must be the trainee's own.
	if log.AssignmentID != nil {
		assignment, err := s.assignmentRepo.GetByID(ctx, *log.AssignmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if assignment.TraineeID != traineeID {
			return nil, ErrNotAuthorized
		}
	}

	log.TraineeID = traineeID
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}

	logID, err := s.logRepo.Create(ctx, &log)
	if err != nil {
		return nil, err
	}
	return s.logRepo.GetByID(ctx, logID)
}

// GetHistory returns a trainee's workout logs, newest first. Out-of-scope
// callers get an empty list.
func (s *workoutService) GetHistory(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]WorkoutLogDetail, error) {
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []WorkoutLogDetail{}, nil
		}
		return nil, err
	}
	if !domain.CanManageTrainee(callerRole, callerID, trainee) {
		return []WorkoutLogDetail{}, nil
	}

	logs, err := s.logRepo.GetByTraineeID(ctx, traineeID)
	if err != nil {
		return nil, err
	}

	details := make([]WorkoutLogDetail, 0, len(logs))
	for _, l := range logs {
		detail := WorkoutLogDetail{Log: l}
		if template, err := s.templateRepo.GetByID(ctx, l.TemplateID); err == nil {
			detail.Template = template
		}
		details = append(details, detail)
	}
	return details, nil
}

// RecordMeasurement appends a progress entry for the calling trainee.
func (s *workoutService) RecordMeasurement(ctx context.Context, traineeID primitive.ObjectID, measurement domain.ProgressMeasurement) (*domain.ProgressMeasurement, error) {
	switch measurement.Kind {
	case domain.MeasurementBodyWeight:
		if measurement.Weight == nil || *measurement.Weight <= 0 {
			return nil, ErrValidation
		}
	case domain.MeasurementBodyFat:
		if measurement.BodyFat == nil || *measurement.BodyFat < 0 || *measurement.BodyFat > 100 {
			return nil, ErrValidation
		}
	case domain.MeasurementCustom:
		if measurement.Name == "" || measurement.Value == nil {
			return nil, ErrValidation
		}
	case domain.MeasurementPersonalRecord:
		if measurement.Value == nil {
			return nil, ErrValidation
		}
	default:
		return nil, ErrValidation
	}

	measurement.TraineeID = traineeID
	measurementID, err := s.progressRepo.Create(ctx, &measurement)
	if err != nil {
		return nil, err
	}
	measurement.ID = measurementID
	return &measurement, nil
}

// GetMeasurements returns a trainee's progress log, newest first, scoped by
// caller.
func (s *workoutService) GetMeasurements(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]domain.ProgressMeasurement, error) {
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.ProgressMeasurement{}, nil
		}
		return nil, err
	}
	if !domain.CanManageTrainee(callerRole, callerID, trainee) {
		return []domain.ProgressMeasurement{}, nil
	}

	return s.progressRepo.GetByTraineeID(ctx, traineeID)
}
