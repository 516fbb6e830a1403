package service

import (
	"context"
	"testing"
	"time"

	"gymworks/studio-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-not-for-production"

func setupAuthTest(t *testing.T) (AuthService, *fakeUserRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	return NewAuthService(userRepo, testJWTSecret, time.Hour), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jordan", "jordan@example.com", "password123", domain.RoleTrainee)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTrainee, user.Role)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.Empty(t, user.PasswordHash, "hash must never leave the service")

	token, loggedIn, err := svc.Login(ctx, "jordan@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "A", "same@example.com", "password123", domain.RoleTrainee)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "B", "same@example.com", "password123", domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestLoginFailures(t *testing.T) {
	svc, userRepo := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jordan", "jordan@example.com", "password123", domain.RoleTrainee)
	require.NoError(t, err)

	// Wrong password and unknown email map to the same failure.
	_, _, err = svc.Login(ctx, "jordan@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	// Deactivated accounts cannot sign in even with valid credentials.
	stored, err := userRepo.GetByEmail(ctx, "jordan@example.com")
	require.NoError(t, err)
	inactive := domain.UserStatusInactive
	require.NoError(t, userRepo.Update(ctx, stored.ID, domain.UserUpdate{Status: &inactive}))

	_, _, err = svc.Login(ctx, "jordan@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "x@example.com", "password123", domain.RoleTrainee)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "X", "x@example.com", "password123", domain.Role("owner"))
	assert.ErrorIs(t, err, ErrValidation)
}
