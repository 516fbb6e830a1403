package service

import (
	"context"

	"gymworks/studio-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportRowResult reports the outcome of one imported record. Row indexes are
// zero-based within their own list.
type ImportRowResult struct {
	Row   int    `json:"row"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// ImportSummary is the per-list outcome of a bulk import.
type ImportSummary struct {
	Exercises []ImportRowResult `json:"exercises"`
	Templates []ImportRowResult `json:"templates"`
}

// ImportService ingests flat exercise and template records produced by a
// spreadsheet export. Each record goes through the ordinary create path, so
// the same validation and ownership rules apply; there is no merge logic.
type ImportService interface {
	Import(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exercises []domain.Exercise, templates []domain.WorkoutTemplate) (*ImportSummary, error)
}

type importService struct {
	exerciseService ExerciseService
	templateService TemplateService
}

// NewImportService creates a new instance of importService.
func NewImportService(exerciseService ExerciseService, templateService TemplateService) ImportService {
	return &importService{
		exerciseService: exerciseService,
		templateService: templateService,
	}
}

// Import creates each record in order, exercises before templates so a
// template row can reference an exercise imported in the same batch. Row
// failures are collected, not fatal: a bad row never aborts the batch.
func (s *importService) Import(ctx context.Context, callerID primitive.ObjectID, callerRole domain.Role, exercises []domain.Exercise, templates []domain.WorkoutTemplate) (*ImportSummary, error) {
	if callerRole != domain.RoleAdmin && callerRole != domain.RoleSuperAdmin {
		return nil, ErrNotAuthorized
	}

	summary := &ImportSummary{
		Exercises: make([]ImportRowResult, 0, len(exercises)),
		Templates: make([]ImportRowResult, 0, len(templates)),
	}

	for i, e := range exercises {
		result := ImportRowResult{Row: i}
		created, err := s.exerciseService.CreateExercise(ctx, callerID, callerRole, e)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.ID = created.ID.Hex()
		}
		summary.Exercises = append(summary.Exercises, result)
	}

	for i, t := range templates {
		result := ImportRowResult{Row: i}
		created, err := s.templateService.CreateTemplate(ctx, callerID, callerRole, t)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.ID = created.ID.Hex()
		}
		summary.Templates = append(summary.Templates, result)
	}

	return summary, nil
}
