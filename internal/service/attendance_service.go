package service

import (
	"context"
	"errors"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceService records who showed up to which class on which date. The
// natural key is (class, trainee, schedule date at UTC day boundary); marking
// the same triple twice patches the first record instead of duplicating it.
type AttendanceService interface {
	// Mark upserts an attendance record. Only the class's instructor (or a
	// super admin) may mark, and only for actively enrolled trainees.
	Mark(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID, traineeID primitive.ObjectID, scheduleDate time.Time, status domain.AttendanceStatus, notes string) (*domain.Attendance, error)
	// HistoryByClass returns a class's attendance records newest first,
	// scoped to its instructor.
	HistoryByClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) ([]domain.Attendance, error)
	// HistoryByTrainee returns a trainee's attendance records newest first,
	// scoped by caller.
	HistoryByTrainee(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]domain.Attendance, error)
}

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	enrollmentRepo repository.EnrollmentRepository
	classRepo      repository.ClassRepository
	userRepo       repository.UserRepository
}

// NewAttendanceService creates a new instance of attendanceService.
func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	enrollmentRepo repository.EnrollmentRepository,
	classRepo repository.ClassRepository,
	userRepo repository.UserRepository,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		enrollmentRepo: enrollmentRepo,
		classRepo:      classRepo,
		userRepo:       userRepo,
	}
}

// Mark upserts an attendance record for (class, trainee, date).
func (s *attendanceService) Mark(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID, traineeID primitive.ObjectID, scheduleDate time.Time, status domain.AttendanceStatus, notes string) (*domain.Attendance, error) {
	switch status {
	case domain.AttendancePresent, domain.AttendanceAbsent, domain.AttendanceLate:
	default:
		return nil, ErrValidation
	}

	// 1. The class must exist.
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// 2. Marking is a mutation, so a scope violation fails loudly.
	if !domain.AuthorizeScope(callerRole, callerID, class.InstructorID) {
		return nil, ErrNotAuthorized
	}

	// 3. Only actively enrolled trainees can be marked.
	if _, err := s.enrollmentRepo.FindActive(ctx, classID, traineeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	// 4. Upsert on the natural key.
	day := domain.NormalizeScheduleDate(scheduleDate)
	existing, err := s.attendanceRepo.FindByKey(ctx, classID, traineeID, day)
	switch {
	case err == nil:
		if err := s.attendanceRepo.Patch(ctx, existing.ID, status, notes, callerID); err != nil {
			return nil, err
		}
		return s.attendanceRepo.FindByKey(ctx, classID, traineeID, day)
	case errors.Is(err, repository.ErrNotFound):
		record := &domain.Attendance{
			ClassID:      classID,
			TraineeID:    traineeID,
			ScheduleDate: day,
			Status:       status,
			MarkedBy:     callerID,
			Notes:        notes,
		}
		if _, err := s.attendanceRepo.Create(ctx, record); err != nil {
			// A concurrent Mark for the same triple can win the insert race;
			// the unique index turns ours into a patch of theirs.
			if errors.Is(err, repository.ErrDuplicate) {
				winner, ferr := s.attendanceRepo.FindByKey(ctx, classID, traineeID, day)
				if ferr != nil {
					return nil, ferr
				}
				if perr := s.attendanceRepo.Patch(ctx, winner.ID, status, notes, callerID); perr != nil {
					return nil, perr
				}
				return s.attendanceRepo.FindByKey(ctx, classID, traineeID, day)
			}
			return nil, err
		}
		return s.attendanceRepo.FindByKey(ctx, classID, traineeID, day)
	default:
		return nil, err
	}
}

// HistoryByClass returns a class's records, newest first. Out-of-scope
// callers get an empty list.
func (s *attendanceService) HistoryByClass(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) ([]domain.Attendance, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.Attendance{}, nil
		}
		return nil, err
	}
	if !domain.AuthorizeScope(callerRole, callerID, class.InstructorID) {
		return []domain.Attendance{}, nil
	}
	return s.attendanceRepo.GetByClassID(ctx, classID)
}

// HistoryByTrainee returns a trainee's records, newest first. Out-of-scope
// callers get an empty list.
func (s *attendanceService) HistoryByTrainee(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) ([]domain.Attendance, error) {
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.Attendance{}, nil
		}
		return nil, err
	}
	if !domain.CanManageTrainee(callerRole, callerID, trainee) {
		return []domain.Attendance{}, nil
	}
	return s.attendanceRepo.GetByTraineeID(ctx, traineeID)
}
