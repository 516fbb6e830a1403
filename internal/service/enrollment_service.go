package service

import (
	"context"
	"errors"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnrollmentDetail joins an enrollment row with its class. A deleted class
// leaves the pointer nil.
type EnrollmentDetail struct {
	Enrollment domain.ClassEnrollment `json:"enrollment"`
	Class      *domain.Class          `json:"class,omitempty"`
}

// EnrollmentService manages a trainee's membership in classes. Enrollment
// rows are never hard-deleted: dropping stamps droppedAt, re-enrolling
// inserts a fresh row, so the pair's history stays readable.
type EnrollmentService interface {
	// Enroll adds a trainee to a class, enforcing the capacity limit against
	// active enrollments only.
	Enroll(ctx context.Context, traineeID, classID primitive.ObjectID) (*domain.ClassEnrollment, error)
	// Drop transitions the trainee's active enrollment to dropped.
	Drop(ctx context.Context, traineeID, classID primitive.ObjectID) error
	// ListByTrainee returns a trainee's enrollment history, newest first,
	// joined with class data. Scoped by caller.
	ListByTrainee(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]EnrollmentDetail, error)
	// Roster lists a class's enrollment rows for its instructor.
	Roster(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) ([]domain.ClassEnrollment, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	classRepo      repository.ClassRepository
	userRepo       repository.UserRepository
}

// NewEnrollmentService creates a new instance of enrollmentService.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	classRepo repository.ClassRepository,
	userRepo repository.UserRepository,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		classRepo:      classRepo,
		userRepo:       userRepo,
	}
}

// Enroll adds a trainee to a class.
func (s *enrollmentService) Enroll(ctx context.Context, traineeID, classID primitive.ObjectID) (*domain.ClassEnrollment, error) {
	// 1. One active enrollment per (trainee, class).
	if _, err := s.enrollmentRepo.FindActive(ctx, classID, traineeID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 2. The class must exist and be accepting enrollments.
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if class.Status != domain.ClassActive {
		return nil, ErrValidation
	}

	// 3. Capacity counts active rows only; dropped history never blocks a
	// seat.
	count, err := s.enrollmentRepo.CountActiveByClassID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if count >= int64(class.Capacity) {
		return nil, ErrCapacityExceeded
	}

	// 4. Insert a fresh row. Re-enrollment after a drop lands here too.
	enrollment := &domain.ClassEnrollment{
		ClassID:   classID,
		TraineeID: traineeID,
		Status:    domain.EnrollmentActive,
	}
	enrollmentID, err := s.enrollmentRepo.Create(ctx, enrollment)
	if err != nil {
		return nil, err
	}
	enrollment.ID = enrollmentID
	return enrollment, nil
}

// Drop transitions the trainee's active enrollment to dropped, stamping
// droppedAt. The row stays behind as history.
func (s *enrollmentService) Drop(ctx context.Context, traineeID, classID primitive.ObjectID) error {
	active, err := s.enrollmentRepo.FindActive(ctx, classID, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotEnrolled
		}
		return err
	}
	return s.enrollmentRepo.MarkDropped(ctx, active.ID)
}

// ListByTrainee returns a trainee's enrollment history, newest first.
// Out-of-scope callers get an empty list.
func (s *enrollmentService) ListByTrainee(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]EnrollmentDetail, error) {
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []EnrollmentDetail{}, nil
		}
		return nil, err
	}
	if !domain.CanManageTrainee(callerRole, callerID, trainee) {
		return []EnrollmentDetail{}, nil
	}

	enrollments, err := s.enrollmentRepo.GetByTraineeID(ctx, traineeID)
	if err != nil {
		return nil, err
	}

	details := make([]EnrollmentDetail, 0, len(enrollments))
	for _, e := range enrollments {
		detail := EnrollmentDetail{Enrollment: e}
		if class, err := s.classRepo.GetByID(ctx, e.ClassID); err == nil {
			detail.Class = class
		}
		details = append(details, detail)
	}
	return details, nil
}

// Roster returns a class's enrollment rows, scoped to the class instructor.
func (s *enrollmentService) Roster(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) ([]domain.ClassEnrollment, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.ClassEnrollment{}, nil
		}
		return nil, err
	}
	if !domain.AuthorizeScope(callerRole, callerID, class.InstructorID) {
		return []domain.ClassEnrollment{}, nil
	}
	return s.enrollmentRepo.GetByClassID(ctx, classID)
}
