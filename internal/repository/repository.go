package repository

import (
	"context"

	"gymworks/studio-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	GetByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	GetTraineesByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]domain.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	GetByCreatorID(ctx context.Context, creatorID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.ExerciseUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TemplateRepository defines the interface for interacting with workout templates.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	List(ctx context.Context) ([]domain.WorkoutTemplate, error)
	GetByCreatorID(ctx context.Context, creatorID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.TemplateUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AssignmentRepository defines the interface for interacting with workout assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.WorkoutAssignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutAssignment, error)
	List(ctx context.Context) ([]domain.WorkoutAssignment, error)
	// GetByTraineeID and GetByAdminID return assignments newest-first.
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.WorkoutAssignment, error)
	GetByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]domain.WorkoutAssignment, error)
	// FindActive returns the active assignment for a (trainee, template)
	// pair, or ErrNotFound.
	FindActive(ctx context.Context, traineeID, templateID primitive.ObjectID) (*domain.WorkoutAssignment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AssignmentStatus, notes *string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutLogRepository defines the interface for interacting with workout logs.
type WorkoutLogRepository interface {
	Create(ctx context.Context, log *domain.WorkoutLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutLog, error)
	// GetByTraineeID returns logs newest-first.
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.WorkoutLog, error)
	GetByTemplateID(ctx context.Context, templateID primitive.ObjectID) ([]domain.WorkoutLog, error)
}

// ClassRepository defines the interface for interacting with class definitions.
type ClassRepository interface {
	Create(ctx context.Context, class *domain.Class) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Class, error)
	List(ctx context.Context) ([]domain.Class, error)
	GetByInstructorID(ctx context.Context, instructorID primitive.ObjectID) ([]domain.Class, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.ClassUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SessionRepository defines the interface for interacting with class sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.ClassSession) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ClassSession, error)
	GetByClassID(ctx context.Context, classID primitive.ObjectID) ([]domain.ClassSession, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.SessionUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByClassID removes all sessions of a class (cascade on class
	// deletion) and reports how many were removed.
	DeleteByClassID(ctx context.Context, classID primitive.ObjectID) (int64, error)
}

// EnrollmentRepository defines the interface for interacting with class enrollments.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.ClassEnrollment) (primitive.ObjectID, error)
	// FindActive returns the active enrollment for a (class, trainee) pair,
	// or ErrNotFound.
	FindActive(ctx context.Context, classID, traineeID primitive.ObjectID) (*domain.ClassEnrollment, error)
	CountActiveByClassID(ctx context.Context, classID primitive.ObjectID) (int64, error)
	GetByClassID(ctx context.Context, classID primitive.ObjectID) ([]domain.ClassEnrollment, error)
	// GetByTraineeID returns enrollments newest-first.
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.ClassEnrollment, error)
	MarkDropped(ctx context.Context, id primitive.ObjectID) error
	// DeleteByClassID removes all enrollment rows of a class (cascade on
	// class deletion) and reports how many were removed.
	DeleteByClassID(ctx context.Context, classID primitive.ObjectID) (int64, error)
}

// AttendanceRepository defines the interface for interacting with attendance records.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *domain.Attendance) (primitive.ObjectID, error)
	// FindByKey looks up the record for the natural key
	// (class, trainee, scheduleDate), or returns ErrNotFound.
	FindByKey(ctx context.Context, classID, traineeID primitive.ObjectID, scheduleDate int64) (*domain.Attendance, error)
	Patch(ctx context.Context, id primitive.ObjectID, status domain.AttendanceStatus, notes string, markedBy primitive.ObjectID) error
	// GetByClassID and GetByTraineeID return records newest-first by
	// schedule date.
	GetByClassID(ctx context.Context, classID primitive.ObjectID) ([]domain.Attendance, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Attendance, error)
}

// ProgressRepository defines the interface for interacting with progress measurements.
type ProgressRepository interface {
	Create(ctx context.Context, measurement *domain.ProgressMeasurement) (primitive.ObjectID, error)
	// GetByTraineeID returns measurements newest-first.
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.ProgressMeasurement, error)
}
