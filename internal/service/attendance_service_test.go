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

type attendanceFixture struct {
	svc            AttendanceService
	attendanceRepo *fakeAttendanceRepo
	enrollmentRepo *fakeEnrollmentRepo
	classRepo      *fakeClassRepo
	userRepo       *fakeUserRepo

	instructor domain.User
	otherAdmin domain.User
	trainee    domain.User
	class      domain.Class
}

func setupAttendanceTest(t *testing.T) *attendanceFixture {
	t.Helper()
	f := &attendanceFixture{
		attendanceRepo: newFakeAttendanceRepo(),
		enrollmentRepo: newFakeEnrollmentRepo(),
		classRepo:      newFakeClassRepo(),
		userRepo:       newFakeUserRepo(),
	}
	f.svc = NewAttendanceService(f.attendanceRepo, f.enrollmentRepo, f.classRepo, f.userRepo)

	f.instructor = f.userRepo.addUser(domain.RoleAdmin, nil)
	f.otherAdmin = f.userRepo.addUser(domain.RoleAdmin, nil)
	f.trainee = f.userRepo.addUser(domain.RoleTrainee, &f.instructor.ID)
	f.class = makeClass(t, f.classRepo, f.instructor.ID, 10)

	_, err := f.enrollmentRepo.Create(context.Background(), &domain.ClassEnrollment{
		ClassID:   f.class.ID,
		TraineeID: f.trainee.ID,
		Status:    domain.EnrollmentActive,
	})
	require.NoError(t, err)
	return f
}

func TestMarkAttendanceUpsert(t *testing.T) {
	f := setupAttendanceTest(t)
	ctx := context.Background()
	// Two different times on the same day collapse to one natural key.
	morning := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 9, 19, 0, 0, 0, time.UTC)

	first, err := f.svc.Mark(ctx, f.instructor.ID, domain.RoleAdmin, f.class.ID, f.trainee.ID, morning, domain.AttendancePresent, "")
	require.NoError(t, err)
	assert.Equal(t, domain.AttendancePresent, first.Status)

	second, err := f.svc.Mark(ctx, f.instructor.ID, domain.RoleAdmin, f.class.ID, f.trainee.ID, evening, domain.AttendanceLate, "arrived late")
	require.NoError(t, err)

	// Re-marking patched in place: one record, latest status.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.AttendanceLate, second.Status)
	assert.Equal(t, "arrived late", second.Notes)

	records, err := f.attendanceRepo.GetByClassID(ctx, f.class.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.NormalizeScheduleDate(morning), records[0].ScheduleDate)
}

func TestMarkAttendanceAuthorization(t *testing.T) {
	f := setupAttendanceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	// A non-instructor admin fails loudly on the mutation.
	_, err := f.svc.Mark(ctx, f.otherAdmin.ID, domain.RoleAdmin, f.class.ID, f.trainee.ID, day, domain.AttendancePresent, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// But the same admin reading class history quietly gets nothing.
	records, err := f.svc.HistoryByClass(ctx, f.otherAdmin.ID, domain.RoleAdmin, f.class.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The instructor succeeds, and a super admin bypasses the check.
	_, err = f.svc.Mark(ctx, f.instructor.ID, domain.RoleAdmin, f.class.ID, f.trainee.ID, day, domain.AttendancePresent, "")
	require.NoError(t, err)

	super := f.userRepo.addUser(domain.RoleSuperAdmin, nil)
	_, err = f.svc.Mark(ctx, super.ID, domain.RoleSuperAdmin, f.class.ID, f.trainee.ID, day, domain.AttendanceAbsent, "")
	require.NoError(t, err)
}

func TestMarkAttendanceRequiresActiveEnrollment(t *testing.T) {
	f := setupAttendanceTest(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)

	outsider := f.userRepo.addUser(domain.RoleTrainee, &f.instructor.ID)
	_, err := f.svc.Mark(ctx, f.instructor.ID, domain.RoleAdmin, f.class.ID, outsider.ID, day, domain.AttendancePresent, "")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	// A dropped trainee cannot be marked either, even for past dates.
	active, err := f.enrollmentRepo.FindActive(ctx, f.class.ID, f.trainee.ID)
	require.NoError(t, err)
	require.NoError(t, f.enrollmentRepo.MarkDropped(ctx, active.ID))

	_, err = f.svc.Mark(ctx, f.instructor.ID, domain.RoleAdmin, f.class.ID, f.trainee.ID, day, domain.AttendancePresent, "")
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestMarkAttendanceMissingClass(t *testing.T) {
	f := setupAttendanceTest(t)

	_, err := f.svc.Mark(context.Background(), f.instructor.ID, domain.RoleAdmin, primitive.NewObjectID(), f.trainee.ID, time.Now(), domain.AttendancePresent, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeScheduleDate(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
	}{
		{"morning utc", time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)},
		{"just before midnight", time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC)},
		{"offset zone same utc day", time.Date(2026, 3, 9, 10, 0, 0, 0, time.FixedZone("CET", 3600))},
	}

	want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC).UnixMilli()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, want, domain.NormalizeScheduleDate(tc.in))
		})
	}
}
