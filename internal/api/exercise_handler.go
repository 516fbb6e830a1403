package api

import (
	"net/http"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"omitempty"`
	Difficulty  string   `json:"difficulty" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Muscles     []string `json:"muscles" binding:"omitempty"`
	Equipment   string   `json:"equipment" binding:"omitempty"`
	Description string   `json:"description" binding:"omitempty"`
}

// MediaUploadRequest asks for a presigned upload URL for one media slot.
type MediaUploadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=image video"`
	ContentType string `json:"contentType" binding:"required"`
}

type MediaUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Handler Methods ---

// CreateExercise adds an entry to the library for the authenticated admin.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), callerID, callerRole, domain.Exercise{
		Name:        req.Name,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Muscles:     req.Muscles,
		Equipment:   req.Equipment,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// ListExercises returns the library. ?own=true narrows to the caller's own
// entries.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), callerID, c.Query("own") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise returns one library entry.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise applies a partial patch to an exercise the caller owns.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var update domain.ExerciseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), callerID, callerRole, exerciseID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise removes an exercise the caller owns.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), callerID, callerRole, exerciseID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestMediaUpload hands out a presigned PUT URL for an exercise media slot.
func (h *ExerciseHandler) RequestMediaUpload(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	uploadURL, objectKey, err := h.exerciseService.RequestMediaUploadURL(
		c.Request.Context(), callerID, callerRole, exerciseID,
		service.ExerciseMediaKind(req.Kind), req.ContentType,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MediaUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// GetMediaDownloadURL resolves a media slot to a presigned GET URL.
func (h *ExerciseHandler) GetMediaDownloadURL(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	kind := service.ExerciseMediaKind(c.Query("kind"))
	downloadURL, err := h.exerciseService.GetMediaDownloadURL(c.Request.Context(), exerciseID, kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}
