package service

import (
	"context"
	"errors"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentDetail joins an assignment with its template and trainee for
// list views. Joins whose target was deleted leave the pointer nil; callers
// treat that as an orphan, not an error.
type AssignmentDetail struct {
	Assignment domain.WorkoutAssignment `json:"assignment"`
	Template   *domain.WorkoutTemplate  `json:"template,omitempty"`
	Trainee    *domain.User             `json:"trainee,omitempty"`
}

// AssignmentService manages workout assignments: an admin scheduling one of
// their templates for a trainee on their roster.
type AssignmentService interface {
	AssignWorkout(ctx context.Context, adminID primitive.ObjectID, adminRole domain.Role, traineeID, templateID primitive.ObjectID, weekdays []int, startDate time.Time, endDate *time.Time, notes string) (*domain.WorkoutAssignment, error)
	// ListByAdmin returns the assignments the admin created, newest first,
	// joined with template and trainee.
	ListByAdmin(ctx context.Context, adminID primitive.ObjectID) ([]AssignmentDetail, error)
	// ListByTrainee returns a trainee's assignments, newest first. Callers
	// other than the trainee must pass the ownership gate.
	ListByTrainee(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]AssignmentDetail, error)
	UpdateStatus(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, assignmentID primitive.ObjectID, status domain.AssignmentStatus, notes *string) (*domain.WorkoutAssignment, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	templateRepo   repository.TemplateRepository
	userRepo       repository.UserRepository
}

// NewAssignmentService creates a new instance of assignmentService.
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	templateRepo repository.TemplateRepository,
	userRepo repository.UserRepository,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
		userRepo:       userRepo,
	}
}

// AssignWorkout creates a new active assignment.
func (s *assignmentService) AssignWorkout(ctx context.Context, adminID primitive.ObjectID, adminRole domain.Role, traineeID, templateID primitive.ObjectID, weekdays []int, startDate time.Time, endDate *time.Time, notes string) (*domain.WorkoutAssignment, error) {
	// 1. Only coaching roles assign workouts.
	if adminRole != domain.RoleAdmin && adminRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}
	for _, d := range weekdays {
		if d < 0 || d > 6 {
			return nil, ErrValidation
		}
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, ErrValidation
	}

	// 2. The template must exist.
	if _, err := s.templateRepo.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// 3. Ownership re-check at mutation time: the trainee must be on the
	// admin's roster (super admin exempt). Never trust the id pairing the
	// client sent.
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !trainee.IsTrainee() {
		return nil, ErrValidation
	}
	if !domain.CanManageTrainee(adminRole, adminID, trainee) {
		return nil, ErrNotAuthorized
	}

	// 4. One active assignment per (trainee, template).
	if _, err := s.assignmentRepo.FindActive(ctx, traineeID, templateID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 5. Insert.
	assignment := &domain.WorkoutAssignment{
		TraineeID:  traineeID,
		TemplateID: templateID,
		AssignedBy: adminID,
		Weekdays:   weekdays,
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     domain.AssignmentActive,
		Notes:      notes,
	}
	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByID(ctx, assignmentID)
}

// ListByAdmin returns the assignments created by an admin, newest first.
func (s *assignmentService) ListByAdmin(ctx context.Context, adminID primitive.ObjectID) ([]AssignmentDetail, error) {
	assignments, err := s.assignmentRepo.GetByAdminID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return s.joinDetails(ctx, assignments), nil
}

// ListByTrainee returns a trainee's assignments, newest first. Out-of-scope
// callers get an empty list, matching the quiet degradation of every list
// query.
func (s *assignmentService) ListByTrainee(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]AssignmentDetail, error) {
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []AssignmentDetail{}, nil
		}
		return nil, err
	}
	if !domain.CanManageTrainee(callerRole, callerID, trainee) {
		return []AssignmentDetail{}, nil
	}

	assignments, err := s.assignmentRepo.GetByTraineeID(ctx, traineeID)
	if err != nil {
		return nil, err
	}
	return s.joinDetails(ctx, assignments), nil
}

// joinDetails resolves template and trainee references, leaving nil where
// the target no longer exists.
func (s *assignmentService) joinDetails(ctx context.Context, assignments []domain.WorkoutAssignment) []AssignmentDetail {
	details := make([]AssignmentDetail, 0, len(assignments))
	for _, a := range assignments {
		detail := AssignmentDetail{Assignment: a}
		if template, err := s.templateRepo.GetByID(ctx, a.TemplateID); err == nil {
			detail.Template = template
		}
		if trainee, err := s.userRepo.GetByID(ctx, a.TraineeID); err == nil {
			trainee.PasswordHash = ""
			detail.Trainee = trainee
		}
		details = append(details, detail)
	}
	return details
}

// UpdateStatus transitions an assignment's status. Ownership is re-validated
// against the assignment's creator; violations fail loudly.
func (s *assignmentService) UpdateStatus(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, assignmentID primitive.ObjectID, status domain.AssignmentStatus, notes *string) (*domain.WorkoutAssignment, error) {
	switch status {
	case domain.AssignmentActive, domain.AssignmentCompleted, domain.AssignmentCancelled, domain.AssignmentPaused:
	default:
		return nil, ErrValidation
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !domain.AuthorizeScope(callerRole, callerID, assignment.AssignedBy) {
		return nil, ErrNotAuthorized
	}

	if err := s.assignmentRepo.UpdateStatus(ctx, assignmentID, status, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.assignmentRepo.GetByID(ctx, assignmentID)
}
