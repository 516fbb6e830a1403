package service

import (
	"context"
	"errors"
	"log"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceService hosts the offline housekeeping jobs. Orphaned references
// accumulate because entity deletion does not cascade into assignments; the
// cleanup here reaps them in bulk instead.
type MaintenanceService interface {
	// CleanupOrphanAssignments deletes assignments whose template, trainee or
	// assigner no longer exists and reports how many were removed. Safe to
	// run repeatedly; a second run right after the first removes nothing.
	CleanupOrphanAssignments(ctx context.Context, callerRole domain.Role) (int, error)
}

type maintenanceService struct {
	assignmentRepo repository.AssignmentRepository
	templateRepo   repository.TemplateRepository
	userRepo       repository.UserRepository
}

// NewMaintenanceService creates a new instance of maintenanceService.
func NewMaintenanceService(
	assignmentRepo repository.AssignmentRepository,
	templateRepo repository.TemplateRepository,
	userRepo repository.UserRepository,
) MaintenanceService {
	return &maintenanceService{
		assignmentRepo: assignmentRepo,
		templateRepo:   templateRepo,
		userRepo:       userRepo,
	}
}

// CleanupOrphanAssignments scans every assignment and deletes those with a
// dangling reference. Super admin only.
func (s *maintenanceService) CleanupOrphanAssignments(ctx context.Context, callerRole domain.Role) (int, error) {
	if callerRole != domain.RoleSuperAdmin {
		return 0, ErrNotAuthorized
	}

	assignments, err := s.assignmentRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, a := range assignments {
		orphan, err := s.isOrphan(ctx, a)
		if err != nil {
			return removed, err
		}
		if !orphan {
			continue
		}
		if err := s.assignmentRepo.Delete(ctx, a.ID); err != nil {
			// Someone else may have deleted it already; that still counts as
			// cleaned up.
			if errors.Is(err, repository.ErrNotFound) {
				removed++
				continue
			}
			return removed, err
		}
		log.Printf("Removed orphan assignment %s (trainee %s, template %s)", a.ID.Hex(), a.TraineeID.Hex(), a.TemplateID.Hex())
		removed++
	}
	return removed, nil
}

func (s *maintenanceService) isOrphan(ctx context.Context, a domain.WorkoutAssignment) (bool, error) {
	if missing, err := s.templateMissing(ctx, a.TemplateID); err != nil || missing {
		return missing, err
	}
	if missing, err := s.userMissing(ctx, a.TraineeID); err != nil || missing {
		return missing, err
	}
	return s.userMissing(ctx, a.AssignedBy)
}

func (s *maintenanceService) templateMissing(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if _, err := s.templateRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *maintenanceService) userMissing(ctx context.Context, id primitive.ObjectID) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}
