package service

import (
	"context"
	"testing"

	"gymworks/studio-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupEnrollmentTest(t *testing.T) (EnrollmentService, *fakeEnrollmentRepo, *fakeClassRepo, *fakeUserRepo) {
	t.Helper()
	enrollmentRepo := newFakeEnrollmentRepo()
	classRepo := newFakeClassRepo()
	userRepo := newFakeUserRepo()
	return NewEnrollmentService(enrollmentRepo, classRepo, userRepo), enrollmentRepo, classRepo, userRepo
}

func makeClass(t *testing.T, classRepo *fakeClassRepo, instructorID primitive.ObjectID, capacity int) domain.Class {
	t.Helper()
	class := domain.Class{
		Name:         "HIIT",
		Capacity:     capacity,
		Duration:     45,
		InstructorID: instructorID,
		Status:       domain.ClassActive,
	}
	_, err := classRepo.Create(context.Background(), &class)
	require.NoError(t, err)
	return class
}

func TestEnrollCapacityLifecycle(t *testing.T) {
	svc, enrollmentRepo, classRepo, userRepo := setupEnrollmentTest(t)
	ctx := context.Background()

	admin := userRepo.addUser(domain.RoleAdmin, nil)
	class := makeClass(t, classRepo, admin.ID, 2)
	t1 := userRepo.addUser(domain.RoleTrainee, &admin.ID)
	t2 := userRepo.addUser(domain.RoleTrainee, &admin.ID)
	t3 := userRepo.addUser(domain.RoleTrainee, &admin.ID)

	_, err := svc.Enroll(ctx, t1.ID, class.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, t2.ID, class.ID)
	require.NoError(t, err)

	count, err := enrollmentRepo.CountActiveByClassID(ctx, class.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Third trainee bounces off the capacity limit and nothing changes.
	_, err = svc.Enroll(ctx, t3.ID, class.ID)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	count, _ = enrollmentRepo.CountActiveByClassID(ctx, class.ID)
	assert.EqualValues(t, 2, count)

	// Dropping keeps the row, frees the seat.
	err = svc.Drop(ctx, t1.ID, class.ID)
	require.NoError(t, err)
	count, _ = enrollmentRepo.CountActiveByClassID(ctx, class.ID)
	assert.EqualValues(t, 1, count)

	rows, err := enrollmentRepo.GetByTraineeID(ctx, t1.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.EnrollmentDropped, rows[0].Status)
	assert.NotNil(t, rows[0].DroppedAt)

	// Re-enrolling creates a second row rather than reviving the first.
	_, err = svc.Enroll(ctx, t1.ID, class.ID)
	require.NoError(t, err)
	rows, _ = enrollmentRepo.GetByTraineeID(ctx, t1.ID)
	require.Len(t, rows, 2)
	statuses := []domain.EnrollmentStatus{rows[0].Status, rows[1].Status}
	assert.Contains(t, statuses, domain.EnrollmentDropped)
	assert.Contains(t, statuses, domain.EnrollmentActive)
	count, _ = enrollmentRepo.CountActiveByClassID(ctx, class.ID)
	assert.EqualValues(t, 2, count)
}

func TestEnrollDuplicateActive(t *testing.T) {
	svc, _, classRepo, userRepo := setupEnrollmentTest(t)
	ctx := context.Background()

	admin := userRepo.addUser(domain.RoleAdmin, nil)
	class := makeClass(t, classRepo, admin.ID, 5)
	trainee := userRepo.addUser(domain.RoleTrainee, &admin.ID)

	_, err := svc.Enroll(ctx, trainee.ID, class.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, trainee.ID, class.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollMissingClass(t *testing.T) {
	svc, _, _, userRepo := setupEnrollmentTest(t)

	trainee := userRepo.addUser(domain.RoleTrainee, nil)
	_, err := svc.Enroll(context.Background(), trainee.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnrollInactiveClass(t *testing.T) {
	svc, _, classRepo, userRepo := setupEnrollmentTest(t)
	ctx := context.Background()

	admin := userRepo.addUser(domain.RoleAdmin, nil)
	class := makeClass(t, classRepo, admin.ID, 5)
	inactive := domain.ClassInactive
	require.NoError(t, classRepo.Update(ctx, class.ID, domain.ClassUpdate{Status: &inactive}))

	trainee := userRepo.addUser(domain.RoleTrainee, &admin.ID)
	_, err := svc.Enroll(ctx, trainee.ID, class.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDropNotEnrolled(t *testing.T) {
	svc, _, classRepo, userRepo := setupEnrollmentTest(t)
	ctx := context.Background()

	admin := userRepo.addUser(domain.RoleAdmin, nil)
	class := makeClass(t, classRepo, admin.ID, 5)
	trainee := userRepo.addUser(domain.RoleTrainee, &admin.ID)

	err := svc.Drop(ctx, trainee.ID, class.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)

	// Dropping twice: the second call finds no active row.
	_, err = svc.Enroll(ctx, trainee.ID, class.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Drop(ctx, trainee.ID, class.ID))
	err = svc.Drop(ctx, trainee.ID, class.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestRosterScope(t *testing.T) {
	svc, _, classRepo, userRepo := setupEnrollmentTest(t)
	ctx := context.Background()

	adminA := userRepo.addUser(domain.RoleAdmin, nil)
	adminB := userRepo.addUser(domain.RoleAdmin, nil)
	super := userRepo.addUser(domain.RoleSuperAdmin, nil)
	class := makeClass(t, classRepo, adminA.ID, 5)
	trainee := userRepo.addUser(domain.RoleTrainee, &adminA.ID)
	_, err := svc.Enroll(ctx, trainee.ID, class.ID)
	require.NoError(t, err)

	// Instructor sees the roster.
	roster, err := svc.Roster(ctx, adminA.ID, domain.RoleAdmin, class.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)

	// A different admin gets an empty list, not an error.
	roster, err = svc.Roster(ctx, adminB.ID, domain.RoleAdmin, class.ID)
	require.NoError(t, err)
	assert.Empty(t, roster)

	// Super admin bypasses the instructor restriction.
	roster, err = svc.Roster(ctx, super.ID, domain.RoleSuperAdmin, class.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}
