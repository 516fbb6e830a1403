package service

import (
	"context"
	"testing"
	"time"

	"gymworks/studio-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAttendanceRatePercent(t *testing.T) {
	cases := []struct {
		name    string
		present int
		total   int
		want    int
	}{
		{"zero total", 0, 0, 0},
		{"three of four", 3, 4, 75},
		{"all present", 5, 5, 100},
		{"none present", 0, 8, 0},
		{"rounds up", 2, 3, 67},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AttendanceRatePercent(tc.present, tc.total))
		})
	}
}

type reportFixture struct {
	svc            ReportService
	userRepo       *fakeUserRepo
	classRepo      *fakeClassRepo
	assignmentRepo *fakeAssignmentRepo
	enrollmentRepo *fakeEnrollmentRepo
	attendanceRepo *fakeAttendanceRepo
	templateRepo   *fakeTemplateRepo
	logRepo        *fakeWorkoutLogRepo
}

func setupReportTest(t *testing.T) *reportFixture {
	t.Helper()
	f := &reportFixture{
		userRepo:       newFakeUserRepo(),
		classRepo:      newFakeClassRepo(),
		assignmentRepo: newFakeAssignmentRepo(),
		enrollmentRepo: newFakeEnrollmentRepo(),
		attendanceRepo: newFakeAttendanceRepo(),
		templateRepo:   newFakeTemplateRepo(),
		logRepo:        newFakeWorkoutLogRepo(),
	}
	f.svc = NewReportService(f.userRepo, f.classRepo, f.assignmentRepo, f.enrollmentRepo, f.attendanceRepo, f.templateRepo, f.logRepo)
	return f
}

func TestTemplateCompletionRate(t *testing.T) {
	f := setupReportTest(t)
	ctx := context.Background()

	exercises := make([]domain.ExercisePrescription, 4)
	for i := range exercises {
		exercises[i] = domain.ExercisePrescription{ExerciseID: primitive.NewObjectID(), Sets: 3, Reps: "10"}
	}
	template := domain.WorkoutTemplate{Name: "Full Body", Duration: 60, Exercises: exercises}
	_, err := f.templateRepo.Create(ctx, &template)
	require.NoError(t, err)

	// No logs yet.
	rate, err := f.svc.TemplateCompletionRate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rate)

	// One log completing 2 of 4 exercises.
	_, err = f.logRepo.Create(ctx, &domain.WorkoutLog{
		TraineeID:  primitive.NewObjectID(),
		TemplateID: template.ID,
		Duration:   50,
		CompletedExercises: []primitive.ObjectID{
			exercises[0].ExerciseID, exercises[1].ExerciseID,
		},
	})
	require.NoError(t, err)

	rate, err = f.svc.TemplateCompletionRate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, rate)

	// A second, fully complete log averages to 75.
	_, err = f.logRepo.Create(ctx, &domain.WorkoutLog{
		TraineeID:  primitive.NewObjectID(),
		TemplateID: template.ID,
		Duration:   60,
		CompletedExercises: []primitive.ObjectID{
			exercises[0].ExerciseID, exercises[1].ExerciseID,
			exercises[2].ExerciseID, exercises[3].ExerciseID,
		},
	})
	require.NoError(t, err)

	rate, err = f.svc.TemplateCompletionRate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, rate)
}

func TestTemplateCompletionRateEmptyTemplate(t *testing.T) {
	f := setupReportTest(t)
	ctx := context.Background()

	template := domain.WorkoutTemplate{Name: "Empty", Duration: 30}
	_, err := f.templateRepo.Create(ctx, &template)
	require.NoError(t, err)

	rate, err := f.svc.TemplateCompletionRate(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rate)
}

func TestRecentActivityOrderingAndLimit(t *testing.T) {
	f := setupReportTest(t)
	ctx := context.Background()

	admin := f.userRepo.addUser(domain.RoleAdmin, nil)
	class := domain.Class{Name: "Yoga", Capacity: 10, Duration: 60, InstructorID: admin.ID, Status: domain.ClassActive}
	_, err := f.classRepo.Create(ctx, &class)
	require.NoError(t, err)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Interleave assignment and enrollment events over distinct timestamps.
	for i := 0; i < 8; i++ {
		_, err := f.assignmentRepo.Create(ctx, &domain.WorkoutAssignment{
			TraineeID:  primitive.NewObjectID(),
			TemplateID: primitive.NewObjectID(),
			AssignedBy: admin.ID,
			AssignedAt: base.Add(time.Duration(2*i) * time.Hour),
			Status:     domain.AssignmentActive,
		})
		require.NoError(t, err)
	}
	for i := 0; i < 8; i++ {
		_, err := f.enrollmentRepo.Create(ctx, &domain.ClassEnrollment{
			ClassID:    class.ID,
			TraineeID:  primitive.NewObjectID(),
			EnrolledAt: base.Add(time.Duration(2*i+1) * time.Hour),
			Status:     domain.EnrollmentActive,
		})
		require.NoError(t, err)
	}

	// Default limit is 10.
	events, err := f.svc.RecentActivity(ctx, admin.ID, domain.RoleAdmin, 0)
	require.NoError(t, err)
	require.Len(t, events, 10)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.After(events[i-1].Timestamp), "feed must be newest first")
	}
	// Newest event overall is the last enrollment.
	assert.Equal(t, EventClassEnrolled, events[0].Kind)
	assert.Equal(t, base.Add(15*time.Hour), events[0].Timestamp)

	// Explicit limit truncates further.
	events, err = f.svc.RecentActivity(ctx, admin.ID, domain.RoleAdmin, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	// Trainees have no feed.
	_, err = f.svc.RecentActivity(ctx, primitive.NewObjectID(), domain.RoleTrainee, 0)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAdminDashboardScoping(t *testing.T) {
	f := setupReportTest(t)
	ctx := context.Background()

	adminA := f.userRepo.addUser(domain.RoleAdmin, nil)
	adminB := f.userRepo.addUser(domain.RoleAdmin, nil)
	t1 := f.userRepo.addUser(domain.RoleTrainee, &adminA.ID)
	f.userRepo.addUser(domain.RoleTrainee, &adminB.ID)

	classA := domain.Class{Name: "A", Capacity: 5, Duration: 30, InstructorID: adminA.ID, Status: domain.ClassActive}
	_, err := f.classRepo.Create(ctx, &classA)
	require.NoError(t, err)
	classB := domain.Class{Name: "B", Capacity: 5, Duration: 30, InstructorID: adminB.ID, Status: domain.ClassActive}
	_, err = f.classRepo.Create(ctx, &classB)
	require.NoError(t, err)

	_, err = f.enrollmentRepo.Create(ctx, &domain.ClassEnrollment{ClassID: classA.ID, TraineeID: t1.ID, Status: domain.EnrollmentActive})
	require.NoError(t, err)

	_, err = f.assignmentRepo.Create(ctx, &domain.WorkoutAssignment{
		TraineeID:  t1.ID,
		TemplateID: primitive.NewObjectID(),
		AssignedBy: adminA.ID,
		Status:     domain.AssignmentActive,
	})
	require.NoError(t, err)

	_, err = f.attendanceRepo.Create(ctx, &domain.Attendance{
		ClassID:      classA.ID,
		TraineeID:    t1.ID,
		ScheduleDate: domain.NormalizeScheduleDate(time.Now().UTC()),
		Status:       domain.AttendancePresent,
		MarkedBy:     adminA.ID,
	})
	require.NoError(t, err)

	// Admin A sees only their own roster, class, assignment.
	stats, err := f.svc.AdminDashboard(ctx, adminA.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Trainees)
	assert.Equal(t, 1, stats.Classes)
	assert.Equal(t, 1, stats.Assignments)
	assert.Equal(t, 1, stats.ActiveEnrollments)
	assert.Equal(t, 1, stats.RecentAssignments)
	assert.Equal(t, 100, stats.AttendanceRate)

	// Admin B's scope is disjoint.
	stats, err = f.svc.AdminDashboard(ctx, adminB.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Trainees)
	assert.Equal(t, 1, stats.Classes)
	assert.Equal(t, 0, stats.Assignments)
	assert.Equal(t, 0, stats.ActiveEnrollments)
	assert.Equal(t, 0, stats.AttendanceRate)

	// Super admin sees everything.
	super := f.userRepo.addUser(domain.RoleSuperAdmin, nil)
	stats, err = f.svc.AdminDashboard(ctx, super.ID, domain.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Trainees)
	assert.Equal(t, 2, stats.Classes)
	assert.Equal(t, 1, stats.Assignments)
}

func TestTraineeAttendanceRateScope(t *testing.T) {
	f := setupReportTest(t)
	ctx := context.Background()

	admin := f.userRepo.addUser(domain.RoleAdmin, nil)
	stranger := f.userRepo.addUser(domain.RoleAdmin, nil)
	trainee := f.userRepo.addUser(domain.RoleTrainee, &admin.ID)
	classID := primitive.NewObjectID()

	today := domain.NormalizeScheduleDate(time.Now().UTC())
	dayMillis := int64(24 * time.Hour / time.Millisecond)
	statuses := []domain.AttendanceStatus{
		domain.AttendancePresent, domain.AttendancePresent, domain.AttendancePresent, domain.AttendanceAbsent,
	}
	for i, status := range statuses {
		_, err := f.attendanceRepo.Create(ctx, &domain.Attendance{
			ClassID:      classID,
			TraineeID:    trainee.ID,
			ScheduleDate: today - int64(i)*dayMillis,
			Status:       status,
			MarkedBy:     admin.ID,
		})
		require.NoError(t, err)
	}
	// A record outside the 30-day window is ignored.
	_, err := f.attendanceRepo.Create(ctx, &domain.Attendance{
		ClassID:      classID,
		TraineeID:    trainee.ID,
		ScheduleDate: today - 40*dayMillis,
		Status:       domain.AttendanceAbsent,
		MarkedBy:     admin.ID,
	})
	require.NoError(t, err)

	rate, err := f.svc.TraineeAttendanceRate(ctx, admin.ID, domain.RoleAdmin, trainee.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, rate)

	// Out-of-scope caller sees zero, not an error.
	rate, err = f.svc.TraineeAttendanceRate(ctx, stranger.ID, domain.RoleAdmin, trainee.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, rate)
}
