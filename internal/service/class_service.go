package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClassDetail joins a class with its instructor and live active-enrollment
// count for list views.
type ClassDetail struct {
	Class      domain.Class `json:"class"`
	Instructor *domain.User `json:"instructor,omitempty"`
	Enrolled   int64        `json:"enrolled"`
}

// ClassService manages group class definitions and their scheduled sessions.
// Deactivation is the normal way to retire a class; hard deletion cascades to
// enrollments and sessions and is meant for cleanup, not day-to-day use.
type ClassService interface {
	CreateClass(ctx context.Context, creatorID primitive.ObjectID, creatorRole domain.Role, class domain.Class) (*domain.Class, error)
	GetClassByID(ctx context.Context, classID primitive.ObjectID) (*domain.Class, error)
	// ListClasses returns all classes joined with instructor and enrollment
	// count. Visible to every authenticated user.
	ListClasses(ctx context.Context) ([]ClassDetail, error)
	ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Class, error)
	UpdateClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID, update domain.ClassUpdate) (*domain.Class, error)
	// DeactivateClass retires a class without touching its history.
	DeactivateClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) error
	// DeleteClass hard-deletes the class and cascades to its enrollments and
	// sessions. Attendance history is kept.
	DeleteClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) error

	ScheduleSession(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID, startAt, endAt time.Time, location *string, capacity *int, notes string) (*domain.ClassSession, error)
	ListSessions(ctx context.Context, classID primitive.ObjectID) ([]domain.ClassSession, error)
	UpdateSession(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, sessionID primitive.ObjectID, update domain.SessionUpdate) (*domain.ClassSession, error)
	CancelSession(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, sessionID primitive.ObjectID) error
}

type classService struct {
	classRepo      repository.ClassRepository
	sessionRepo    repository.SessionRepository
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
}

// NewClassService creates a new instance of classService.
func NewClassService(
	classRepo repository.ClassRepository,
	sessionRepo repository.SessionRepository,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
) ClassService {
	return &classService{
		classRepo:      classRepo,
		sessionRepo:    sessionRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
	}
}

// CreateClass defines a new class. The creator becomes the instructor unless
// a super admin names someone else.
func (s *classService) CreateClass(ctx context.Context, creatorID primitive.ObjectID, creatorRole domain.Role, class domain.Class) (*domain.Class, error) {
	if creatorRole != domain.RoleAdmin && creatorRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}
	if class.Name == "" || class.Capacity <= 0 || class.Duration <= 0 {
		return nil, ErrValidation
	}

	// A restricted admin always instructs their own classes.
	if creatorRole == domain.RoleAdmin || class.InstructorID == primitive.NilObjectID {
		class.InstructorID = creatorID
	} else if class.InstructorID != creatorID {
		instructor, err := s.userRepo.GetByID(ctx, class.InstructorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !instructor.CanCoach() {
			return nil, ErrNotAnAdmin
		}
	}

	class.Status = domain.ClassActive
	classID, err := s.classRepo.Create(ctx, &class)
	if err != nil {
		return nil, err
	}
	return s.classRepo.GetByID(ctx, classID)
}

// GetClassByID retrieves one class. The catalog has no read-side ownership
// restriction.
func (s *classService) GetClassByID(ctx context.Context, classID primitive.ObjectID) (*domain.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return class, nil
}

// ListClasses returns the catalog with instructor and live enrollment count.
func (s *classService) ListClasses(ctx context.Context) ([]ClassDetail, error) {
	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]ClassDetail, 0, len(classes))
	for _, c := range classes {
		detail := ClassDetail{Class: c}
		if instructor, err := s.userRepo.GetByID(ctx, c.InstructorID); err == nil {
			instructor.PasswordHash = ""
			detail.Instructor = instructor
		}
		if count, err := s.enrollmentRepo.CountActiveByClassID(ctx, c.ID); err == nil {
			detail.Enrolled = count
		}
		details = append(details, detail)
	}
	return details, nil
}

// ListByInstructor returns the classes a given instructor runs.
func (s *classService) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Class, error) {
	return s.classRepo.GetByInstructorID(ctx, instructorID)
}

// UpdateClass applies a partial patch, ensuring instructor ownership.
func (s *classService) UpdateClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID, update domain.ClassUpdate) (*domain.Class, error) {
	existing, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !domain.AuthorizeScope(callerRole, callerID, existing.InstructorID) {
		return nil, ErrNotAuthorized
	}
	if update.Name != nil && *update.Name == "" {
		return nil, ErrValidation
	}
	if update.Capacity != nil && *update.Capacity <= 0 {
		return nil, ErrValidation
	}
	if update.Duration != nil && *update.Duration <= 0 {
		return nil, ErrValidation
	}
	if update.Status != nil && *update.Status != domain.ClassActive && *update.Status != domain.ClassInactive {
		return nil, ErrValidation
	}

	if err := s.classRepo.Update(ctx, classID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.classRepo.GetByID(ctx, classID)
}

// DeactivateClass flips the status to inactive. Existing enrollments stay put;
// new ones are refused while inactive.
func (s *classService) DeactivateClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) error {
	status := domain.ClassInactive
	_, err := s.UpdateClass(ctx, callerID, callerRole, classID, domain.ClassUpdate{Status: &status})
	return err
}

// DeleteClass hard-deletes a class and cascades to its enrollment rows and
// sessions. Attendance records outlive the class for reporting.
func (s *classService) DeleteClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) error {
	existing, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !domain.AuthorizeScope(callerRole, callerID, existing.InstructorID) {
		return ErrNotAuthorized
	}

	if err := s.classRepo.Delete(ctx, classID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	enrollments, err := s.enrollmentRepo.DeleteByClassID(ctx, classID)
	if err != nil {
		log.Printf("WARN: class %s deleted but enrollment cascade failed: %v", classID.Hex(), err)
	}
	sessions, err := s.sessionRepo.DeleteByClassID(ctx, classID)
	if err != nil {
		log.Printf("WARN: class %s deleted but session cascade failed: %v", classID.Hex(), err)
	}
	log.Printf("Deleted class %s (%d enrollments, %d sessions)", classID.Hex(), enrollments, sessions)
	return nil
}

// ScheduleSession creates one concrete occurrence of a class.
func (s *classService) ScheduleSession(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID, startAt, endAt time.Time, location *string, capacity *int, notes string) (*domain.ClassSession, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !domain.AuthorizeScope(callerRole, callerID, class.InstructorID) {
		return nil, ErrNotAuthorized
	}
	if !endAt.After(startAt) {
		return nil, ErrValidation
	}
	if capacity != nil && *capacity <= 0 {
		return nil, ErrValidation
	}

	session := &domain.ClassSession{
		ClassID:  classID,
		StartAt:  startAt.UTC(),
		EndAt:    endAt.UTC(),
		Date:     domain.NormalizeScheduleDate(startAt),
		Status:   domain.SessionScheduled,
		Location: location,
		Capacity: capacity,
		Notes:    notes,
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// ListSessions returns a class's sessions, soonest first.
func (s *classService) ListSessions(ctx context.Context, classID primitive.ObjectID) ([]domain.ClassSession, error) {
	return s.sessionRepo.GetByClassID(ctx, classID)
}

// UpdateSession patches a session, scoping through the parent class's
// instructor.
func (s *classService) UpdateSession(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, sessionID primitive.ObjectID, update domain.SessionUpdate) (*domain.ClassSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	class, err := s.classRepo.GetByID(ctx, session.ClassID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !domain.AuthorizeScope(callerRole, callerID, class.InstructorID) {
		return nil, ErrNotAuthorized
	}

	if update.Status != nil {
		switch *update.Status {
		case domain.SessionScheduled, domain.SessionCompleted, domain.SessionCancelled:
		default:
			return nil, ErrValidation
		}
	}
	if update.Capacity != nil && *update.Capacity <= 0 {
		return nil, ErrValidation
	}
	startAt := session.StartAt
	endAt := session.EndAt
	if update.StartAt != nil {
		startAt = *update.StartAt
	}
	if update.EndAt != nil {
		endAt = *update.EndAt
	}
	if !endAt.After(startAt) {
		return nil, ErrValidation
	}

	if err := s.sessionRepo.Update(ctx, sessionID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// CancelSession marks a session cancelled without deleting it.
func (s *classService) CancelSession(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, sessionID primitive.ObjectID) error {
	status := domain.SessionCancelled
	_, err := s.UpdateSession(ctx, callerID, callerRole, sessionID, domain.SessionUpdate{Status: &status})
	return err
}
