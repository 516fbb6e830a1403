package service

import (
	"context"
	"testing"
	"time"

	"gymworks/studio-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type classFixture struct {
	svc            ClassService
	classRepo      *fakeClassRepo
	sessionRepo    *fakeSessionRepo
	enrollmentRepo *fakeEnrollmentRepo
	userRepo       *fakeUserRepo

	admin domain.User
	other domain.User
	super domain.User
}

func setupClassTest(t *testing.T) *classFixture {
	t.Helper()
	f := &classFixture{
		classRepo:      newFakeClassRepo(),
		sessionRepo:    newFakeSessionRepo(),
		enrollmentRepo: newFakeEnrollmentRepo(),
		userRepo:       newFakeUserRepo(),
	}
	f.svc = NewClassService(f.classRepo, f.sessionRepo, f.enrollmentRepo, f.userRepo)
	f.admin = f.userRepo.addUser(domain.RoleAdmin, nil)
	f.other = f.userRepo.addUser(domain.RoleAdmin, nil)
	f.super = f.userRepo.addUser(domain.RoleSuperAdmin, nil)
	return f
}

func TestCreateClassInstructorRules(t *testing.T) {
	f := setupClassTest(t)
	ctx := context.Background()

	// An admin always instructs their own class, even if they name someone else.
	created, err := f.svc.CreateClass(ctx, f.admin.ID, domain.RoleAdmin, domain.Class{
		Name:         "Spin",
		Capacity:     20,
		Duration:     45,
		InstructorID: f.other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, created.InstructorID)
	assert.Equal(t, domain.ClassActive, created.Status)

	// A super admin may delegate to another coach.
	created, err = f.svc.CreateClass(ctx, f.super.ID, domain.RoleSuperAdmin, domain.Class{
		Name:         "Yoga",
		Capacity:     15,
		Duration:     60,
		InstructorID: f.other.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, created.InstructorID)

	// But not to a trainee.
	trainee := f.userRepo.addUser(domain.RoleTrainee, nil)
	_, err = f.svc.CreateClass(ctx, f.super.ID, domain.RoleSuperAdmin, domain.Class{
		Name:         "HIIT",
		Capacity:     10,
		Duration:     30,
		InstructorID: trainee.ID,
	})
	assert.ErrorIs(t, err, ErrNotAnAdmin)

	// Capacity and duration must be positive.
	_, err = f.svc.CreateClass(ctx, f.admin.ID, domain.RoleAdmin, domain.Class{Name: "Bad", Capacity: 0, Duration: 45})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateClassOwnership(t *testing.T) {
	f := setupClassTest(t)
	ctx := context.Background()

	created, err := f.svc.CreateClass(ctx, f.admin.ID, domain.RoleAdmin, domain.Class{Name: "Spin", Capacity: 20, Duration: 45})
	require.NoError(t, err)

	capacity := 25
	_, err = f.svc.UpdateClass(ctx, f.other.ID, domain.RoleAdmin, created.ID, domain.ClassUpdate{Capacity: &capacity})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	updated, err := f.svc.UpdateClass(ctx, f.super.ID, domain.RoleSuperAdmin, created.ID, domain.ClassUpdate{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Capacity)

	require.NoError(t, f.svc.DeactivateClass(ctx, f.admin.ID, domain.RoleAdmin, created.ID))
	refreshed, err := f.svc.GetClassByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassInactive, refreshed.Status)
}

func TestDeleteClassCascade(t *testing.T) {
	f := setupClassTest(t)
	ctx := context.Background()

	created, err := f.svc.CreateClass(ctx, f.admin.ID, domain.RoleAdmin, domain.Class{Name: "Spin", Capacity: 20, Duration: 45})
	require.NoError(t, err)

	trainee := f.userRepo.addUser(domain.RoleTrainee, &f.admin.ID)
	_, err = f.enrollmentRepo.Create(ctx, &domain.ClassEnrollment{ClassID: created.ID, TraineeID: trainee.ID})
	require.NoError(t, err)

	start := time.Date(2026, 9, 3, 18, 0, 0, 0, time.UTC)
	_, err = f.svc.ScheduleSession(ctx, f.admin.ID, domain.RoleAdmin, created.ID, start, start.Add(45*time.Minute), nil, nil, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteClass(ctx, f.admin.ID, domain.RoleAdmin, created.ID))

	_, err = f.svc.GetClassByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	enrollments, err := f.enrollmentRepo.GetByClassID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, enrollments)

	sessions, err := f.svc.ListSessions(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestScheduleSessionValidation(t *testing.T) {
	f := setupClassTest(t)
	ctx := context.Background()

	created, err := f.svc.CreateClass(ctx, f.admin.ID, domain.RoleAdmin, domain.Class{Name: "Spin", Capacity: 20, Duration: 45})
	require.NoError(t, err)

	start := time.Date(2026, 9, 3, 18, 0, 0, 0, time.UTC)

	// End must come after start.
	_, err = f.svc.ScheduleSession(ctx, f.admin.ID, domain.RoleAdmin, created.ID, start, start, nil, nil, "")
	assert.ErrorIs(t, err, ErrValidation)

	// Only the instructor may schedule.
	_, err = f.svc.ScheduleSession(ctx, f.other.ID, domain.RoleAdmin, created.ID, start, start.Add(time.Hour), nil, nil, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	session, err := f.svc.ScheduleSession(ctx, f.admin.ID, domain.RoleAdmin, created.ID, start, start.Add(time.Hour), nil, nil, "bring mats")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionScheduled, session.Status)
	assert.Equal(t, domain.NormalizeScheduleDate(start), session.Date)

	// An update may not invert the time range.
	badEnd := start.Add(-time.Hour)
	_, err = f.svc.UpdateSession(ctx, f.admin.ID, domain.RoleAdmin, session.ID, domain.SessionUpdate{EndAt: &badEnd})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.CancelSession(ctx, f.admin.ID, domain.RoleAdmin, session.ID))
	refreshed, err := f.sessionRepo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCancelled, refreshed.Status)
}
