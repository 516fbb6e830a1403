package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trailing windows used by the dashboard. Recency and attendance-rate windows
// are deliberately different sizes; keep them separate.
const (
	recentWindow         = 7 * 24 * time.Hour
	attendanceRateWindow = 30 * 24 * time.Hour
)

const defaultFeedLimit = 10

// DashboardStats are the scoped counts shown on an admin's landing page.
type DashboardStats struct {
	Trainees          int `json:"trainees"`
	Classes           int `json:"classes"`
	Assignments       int `json:"assignments"`
	ActiveEnrollments int `json:"activeEnrollments"`
	// RecentAssignments counts assignments created in the trailing week.
	RecentAssignments int `json:"recentAssignments"`
	// AttendanceRate is the instructor's percentage over the trailing 30 days.
	AttendanceRate int `json:"attendanceRate"`
}

// ActivityEventKind distinguishes the feed's event sources.
type ActivityEventKind string

const (
	EventWorkoutAssigned ActivityEventKind = "workout_assigned"
	EventClassEnrolled   ActivityEventKind = "class_enrolled"
)

// ActivityEvent is one row of the recent-activity feed.
type ActivityEvent struct {
	Kind      ActivityEventKind  `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	TraineeID primitive.ObjectID `json:"traineeId"`
	TargetID  primitive.ObjectID `json:"targetId"` // template or class
}

// ReportService computes derived views by composing the entity services'
// repositories. Nothing here is materialized; every call recomputes.
type ReportService interface {
	// TraineeAttendanceRate is the percentage of present marks among a
	// trainee's records in the trailing 30 days. Zero records means zero.
	TraineeAttendanceRate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) (int, error)
	// ClassAttendanceRate is the same percentage across a class's records,
	// scoped to its instructor.
	ClassAttendanceRate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) (int, error)
	// AdminDashboard aggregates an admin's scoped counts.
	AdminDashboard(ctx context.Context, adminID primitive.ObjectID, adminRole domain.Role) (*DashboardStats, error)
	// RecentActivity merges workout-assigned and class-enrolled events for
	// the admin's scope, newest first, truncated to limit (default 10).
	RecentActivity(ctx context.Context, adminID primitive.ObjectID, adminRole domain.Role, limit int) ([]ActivityEvent, error)
	// TemplateCompletionRate averages, across all logs referencing a
	// template, the fraction of its exercises marked completed. Returns a
	// percentage; zero exercises or zero logs yields 0.
	TemplateCompletionRate(ctx context.Context, templateID primitive.ObjectID) (int, error)
}

type reportService struct {
	userRepo       repository.UserRepository
	classRepo      repository.ClassRepository
	assignmentRepo repository.AssignmentRepository
	enrollmentRepo repository.EnrollmentRepository
	attendanceRepo repository.AttendanceRepository
	templateRepo   repository.TemplateRepository
	logRepo        repository.WorkoutLogRepository
}

// NewReportService creates a new instance of reportService.
func NewReportService(
	userRepo repository.UserRepository,
	classRepo repository.ClassRepository,
	assignmentRepo repository.AssignmentRepository,
	enrollmentRepo repository.EnrollmentRepository,
	attendanceRepo repository.AttendanceRepository,
	templateRepo repository.TemplateRepository,
	logRepo repository.WorkoutLogRepository,
) ReportService {
	return &reportService{
		userRepo:       userRepo,
		classRepo:      classRepo,
		assignmentRepo: assignmentRepo,
		enrollmentRepo: enrollmentRepo,
		attendanceRepo: attendanceRepo,
		templateRepo:   templateRepo,
		logRepo:        logRepo,
	}
}

// AttendanceRatePercent computes round(present/total*100). Total of zero is
// defined as zero, never a division error.
func AttendanceRatePercent(present, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

// rateFromRecords folds attendance records inside the trailing 30-day window
// into a percentage.
func rateFromRecords(records []domain.Attendance, now time.Time) int {
	cutoff := now.Add(-attendanceRateWindow).UnixMilli()
	present, total := 0, 0
	for _, r := range records {
		if r.ScheduleDate < cutoff {
			continue
		}
		total++
		if r.Status == domain.AttendancePresent {
			present++
		}
	}
	return AttendanceRatePercent(present, total)
}

// TraineeAttendanceRate computes a trainee's 30-day attendance percentage.
// Out-of-scope callers see 0, consistent with the empty history they would
// get from the list query.
func (s *reportService) TraineeAttendanceRate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, traineeID primitive.ObjectID) (int, error) {
	trainee, err := s.userRepo.GetByID(ctx, traineeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !domain.CanManageTrainee(callerRole, callerID, trainee) {
		return 0, nil
	}

	records, err := s.attendanceRepo.GetByTraineeID(ctx, traineeID)
	if err != nil {
		return 0, err
	}
	return rateFromRecords(records, time.Now().UTC()), nil
}

// ClassAttendanceRate computes a class's 30-day attendance percentage, scoped
// to its instructor.
func (s *reportService) ClassAttendanceRate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, classID primitive.ObjectID) (int, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !domain.AuthorizeScope(callerRole, callerID, class.InstructorID) {
		return 0, nil
	}

	records, err := s.attendanceRepo.GetByClassID(ctx, classID)
	if err != nil {
		return 0, err
	}
	return rateFromRecords(records, time.Now().UTC()), nil
}

// AdminDashboard aggregates the caller's scoped counts. A super admin sees
// global numbers, a restricted admin only their own roster and classes.
func (s *reportService) AdminDashboard(ctx context.Context, adminID primitive.ObjectID, adminRole domain.Role) (*DashboardStats, error) {
	if adminRole != domain.RoleAdmin && adminRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}

	stats := &DashboardStats{}
	now := time.Now().UTC()

	var trainees []domain.User
	var err error
	if adminRole == domain.RoleSuperAdmin {
		trainees, err = s.userRepo.GetByRole(ctx, domain.RoleTrainee)
	} else {
		trainees, err = s.userRepo.GetTraineesByAdminID(ctx, adminID)
	}
	if err != nil {
		return nil, err
	}
	stats.Trainees = len(trainees)

	var classes []domain.Class
	if adminRole == domain.RoleSuperAdmin {
		classes, err = s.classRepo.List(ctx)
	} else {
		classes, err = s.classRepo.GetByInstructorID(ctx, adminID)
	}
	if err != nil {
		return nil, err
	}
	stats.Classes = len(classes)

	var assignments []domain.WorkoutAssignment
	if adminRole == domain.RoleSuperAdmin {
		assignments, err = s.assignmentRepo.List(ctx)
	} else {
		assignments, err = s.assignmentRepo.GetByAdminID(ctx, adminID)
	}
	if err != nil {
		return nil, err
	}
	stats.Assignments = len(assignments)

	recentCutoff := now.Add(-recentWindow)
	for _, a := range assignments {
		if a.AssignedAt.After(recentCutoff) {
			stats.RecentAssignments++
		}
	}

	present, total := 0, 0
	rateCutoff := now.Add(-attendanceRateWindow).UnixMilli()
	for _, c := range classes {
		count, err := s.enrollmentRepo.CountActiveByClassID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		stats.ActiveEnrollments += int(count)

		records, err := s.attendanceRepo.GetByClassID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if r.ScheduleDate < rateCutoff {
				continue
			}
			total++
			if r.Status == domain.AttendancePresent {
				present++
			}
		}
	}
	stats.AttendanceRate = AttendanceRatePercent(present, total)

	return stats, nil
}

// RecentActivity merges assignment and enrollment events, newest first. The
// sort is stable so equal timestamps keep their source order.
func (s *reportService) RecentActivity(ctx context.Context, adminID primitive.ObjectID, adminRole domain.Role, limit int) ([]ActivityEvent, error) {
	if adminRole != domain.RoleAdmin && adminRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	var assignments []domain.WorkoutAssignment
	var err error
	if adminRole == domain.RoleSuperAdmin {
		assignments, err = s.assignmentRepo.List(ctx)
	} else {
		assignments, err = s.assignmentRepo.GetByAdminID(ctx, adminID)
	}
	if err != nil {
		return nil, err
	}

	var classes []domain.Class
	if adminRole == domain.RoleSuperAdmin {
		classes, err = s.classRepo.List(ctx)
	} else {
		classes, err = s.classRepo.GetByInstructorID(ctx, adminID)
	}
	if err != nil {
		return nil, err
	}

	events := make([]ActivityEvent, 0, len(assignments))
	for _, a := range assignments {
		events = append(events, ActivityEvent{
			Kind:      EventWorkoutAssigned,
			Timestamp: a.AssignedAt,
			TraineeID: a.TraineeID,
			TargetID:  a.TemplateID,
		})
	}
	for _, c := range classes {
		enrollments, err := s.enrollmentRepo.GetByClassID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range enrollments {
			events = append(events, ActivityEvent{
				Kind:      EventClassEnrolled,
				Timestamp: e.EnrolledAt,
				TraineeID: e.TraineeID,
				TargetID:  e.ClassID,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// TemplateCompletionRate averages the completed-exercise fraction across all
// logs of a template.
func (s *reportService) TemplateCompletionRate(ctx context.Context, templateID primitive.ObjectID) (int, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if len(template.Exercises) == 0 {
		return 0, nil
	}

	logs, err := s.logRepo.GetByTemplateID(ctx, templateID)
	if err != nil {
		return 0, err
	}
	if len(logs) == 0 {
		return 0, nil
	}

	exerciseCount := float64(len(template.Exercises))
	var sum float64
	for _, l := range logs {
		sum += float64(len(l.CompletedExercises)) / exerciseCount
	}
	return int(math.Round(sum / float64(len(logs)) * 100)), nil
}
