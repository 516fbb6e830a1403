package service

import (
	"context"
	"errors"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateDetail joins a template with its resolved exercises. Prescriptions
// whose exercise was deleted are skipped, not errored: a dangling reference
// is a data-quality condition, never a request-time failure.
type TemplateDetail struct {
	Template  domain.WorkoutTemplate `json:"template"`
	Exercises []ResolvedPrescription `json:"exercises"`
}

// ResolvedPrescription pairs one template entry with its exercise.
type ResolvedPrescription struct {
	Prescription domain.ExercisePrescription `json:"prescription"`
	Exercise     domain.Exercise             `json:"exercise"`
}

// TemplateService manages workout templates authored by admins.
type TemplateService interface {
	CreateTemplate(ctx context.Context, creatorID primitive.ObjectID, creatorRole domain.Role, template domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	GetTemplateByID(ctx context.Context, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error)
	// GetTemplateDetail resolves the template's exercise references,
	// silently skipping entries whose exercise no longer exists.
	GetTemplateDetail(ctx context.Context, templateID primitive.ObjectID) (*TemplateDetail, error)
	ListTemplates(ctx context.Context, callerID primitive.ObjectID, ownOnly bool) ([]domain.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, templateID primitive.ObjectID, update domain.TemplateUpdate) (*domain.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, templateID primitive.ObjectID) error
}

type templateService struct {
	templateRepo repository.TemplateRepository
	exerciseRepo repository.ExerciseRepository
}

// NewTemplateService creates a new instance of templateService.
func NewTemplateService(templateRepo repository.TemplateRepository, exerciseRepo repository.ExerciseRepository) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		exerciseRepo: exerciseRepo,
	}
}

// validatePrescriptions checks the structural rules of a prescription list.
func validatePrescriptions(prescriptions []domain.ExercisePrescription) error {
	for _, p := range prescriptions {
		if p.ExerciseID == primitive.NilObjectID {
			return ErrValidation
		}
		if p.Sets <= 0 || p.RestSeconds < 0 {
			return ErrValidation
		}
	}
	return nil
}

// CreateTemplate authors a new workout template. Exercise references are
// validated for existence at creation time; they may still go dangling later
// if the exercise is deleted.
func (s *templateService) CreateTemplate(ctx context.Context, creatorID primitive.ObjectID, creatorRole domain.Role, template domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	if creatorRole != domain.RoleAdmin && creatorRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}
	if template.Name == "" || template.Duration <= 0 {
		return nil, ErrValidation
	}
	if err := validatePrescriptions(template.Exercises); err != nil {
		return nil, err
	}
	for _, p := range template.Exercises {
		if _, err := s.exerciseRepo.GetByID(ctx, p.ExerciseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	template.CreatedBy = creatorID
	templateID, err := s.templateRepo.Create(ctx, &template)
	if err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, templateID)
}

// GetTemplateByID retrieves a template without resolving its exercises.
func (s *templateService) GetTemplateByID(ctx context.Context, templateID primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return template, nil
}

// GetTemplateDetail joins the template's prescriptions to their exercises.
func (s *templateService) GetTemplateDetail(ctx context.Context, templateID primitive.ObjectID) (*TemplateDetail, error) {
	template, err := s.GetTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	detail := &TemplateDetail{
		Template:  *template,
		Exercises: make([]ResolvedPrescription, 0, len(template.Exercises)),
	}
	for _, p := range template.Exercises {
		exercise, err := s.exerciseRepo.GetByID(ctx, p.ExerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Orphaned prescription: skip it.
				continue
			}
			return nil, err
		}
		detail.Exercises = append(detail.Exercises, ResolvedPrescription{
			Prescription: p,
			Exercise:     *exercise,
		})
	}
	return detail, nil
}

// ListTemplates retrieves templates, optionally scoped to the caller's own.
func (s *templateService) ListTemplates(ctx context.Context, callerID primitive.ObjectID, ownOnly bool) ([]domain.WorkoutTemplate, error) {
	if ownOnly {
		return s.templateRepo.GetByCreatorID(ctx, callerID)
	}
	return s.templateRepo.List(ctx)
}

// UpdateTemplate applies a partial patch, ensuring creator ownership.
func (s *templateService) UpdateTemplate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, templateID primitive.ObjectID, update domain.TemplateUpdate) (*domain.WorkoutTemplate, error) {
	existing, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !domain.AuthorizeScope(callerRole, callerID, existing.CreatedBy) {
		return nil, ErrNotAuthorized
	}
	if update.Name != nil && *update.Name == "" {
		return nil, ErrValidation
	}
	if update.Duration != nil && *update.Duration <= 0 {
		return nil, ErrValidation
	}
	if update.Exercises != nil {
		if err := validatePrescriptions(*update.Exercises); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Update(ctx, templateID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, templateID)
}

// DeleteTemplate removes a template, ensuring creator ownership.
// Assignments referencing it become orphans handled by maintenance cleanup.
func (s *templateService) DeleteTemplate(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, templateID primitive.ObjectID) error {
	existing, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !domain.AuthorizeScope(callerRole, callerID, existing.CreatedBy) {
		return ErrNotAuthorized
	}

	err = s.templateRepo.Delete(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
