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

func TestCleanupOrphanAssignments(t *testing.T) {
	assignmentRepo := newFakeAssignmentRepo()
	templateRepo := newFakeTemplateRepo()
	userRepo := newFakeUserRepo()
	svc := NewMaintenanceService(assignmentRepo, templateRepo, userRepo)
	ctx := context.Background()

	admin := userRepo.addUser(domain.RoleAdmin, nil)
	trainee := userRepo.addUser(domain.RoleTrainee, &admin.ID)
	template := domain.WorkoutTemplate{Name: "Legs", Duration: 45}
	_, err := templateRepo.Create(ctx, &template)
	require.NoError(t, err)

	newAssignment := func(traineeID, templateID, assignerID primitive.ObjectID) {
		_, err := assignmentRepo.Create(ctx, &domain.WorkoutAssignment{
			TraineeID:  traineeID,
			TemplateID: templateID,
			AssignedBy: assignerID,
			StartDate:  time.Now().UTC(),
			Status:     domain.AssignmentActive,
		})
		require.NoError(t, err)
	}

	newAssignment(trainee.ID, template.ID, admin.ID)                // intact
	newAssignment(trainee.ID, primitive.NewObjectID(), admin.ID)    // template gone
	newAssignment(primitive.NewObjectID(), template.ID, admin.ID)   // trainee gone
	newAssignment(trainee.ID, template.ID, primitive.NewObjectID()) // assigner gone

	// Only a super admin may run the reaper.
	_, err = svc.CleanupOrphanAssignments(ctx, domain.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	removed, err := svc.CleanupOrphanAssignments(ctx, domain.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	remaining, err := assignmentRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, trainee.ID, remaining[0].TraineeID)

	// Idempotent: a second run removes nothing.
	removed, err = svc.CleanupOrphanAssignments(ctx, domain.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
