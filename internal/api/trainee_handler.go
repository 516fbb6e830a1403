package api

import (
	"net/http"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TraineeHandler serves the trainee's own surface: their assignments, workout
// logging, class enrollment, attendance and progress. Every call operates on
// the authenticated trainee's own records.
type TraineeHandler struct {
	userService       service.UserService
	assignmentService service.AssignmentService
	workoutService    service.WorkoutService
	enrollmentService service.EnrollmentService
	attendanceService service.AttendanceService
	reportService     service.ReportService
}

// NewTraineeHandler creates a new TraineeHandler.
func NewTraineeHandler(
	userService service.UserService,
	assignmentService service.AssignmentService,
	workoutService service.WorkoutService,
	enrollmentService service.EnrollmentService,
	attendanceService service.AttendanceService,
	reportService service.ReportService,
) *TraineeHandler {
	return &TraineeHandler{
		userService:       userService,
		assignmentService: assignmentService,
		workoutService:    workoutService,
		enrollmentService: enrollmentService,
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// --- DTOs ---

type LogWorkoutRequest struct {
	TemplateID         string                  `json:"templateId" binding:"required"`
	AssignmentID       *string                 `json:"assignmentId" binding:"omitempty"`
	CompletedAt        *time.Time              `json:"completedAt" binding:"omitempty"`
	Duration           int                     `json:"duration" binding:"required,gt=0"`
	CompletedExercises []string                `json:"completedExercises"`
	Results            []domain.ExerciseResult `json:"results"`
	Notes              string                  `json:"notes"`
}

type RecordMeasurementRequest struct {
	Kind    domain.MeasurementKind `json:"kind" binding:"required,oneof=body_weight body_fat personal_record measurement"`
	Weight  *float64               `json:"weight"`
	BodyFat *float64               `json:"bodyFat"`
	Name    string                 `json:"name"`
	Value   *float64               `json:"value"`
	Unit    string                 `json:"unit"`
	Notes   string                 `json:"notes"`
}

type EnrollRequest struct {
	ClassID string `json:"classId" binding:"required"`
}

// --- Profile ---

// GetProfile returns the authenticated user's own account.
func (h *TraineeHandler) GetProfile(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), callerID, callerRole, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile patches the authenticated user's own account.
func (h *TraineeHandler) UpdateProfile(c *gin.Context) {
	var update domain.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), callerID, callerRole, callerID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// --- Assignments & workouts ---

// ListMyAssignments returns the trainee's own assignments, newest first.
func (h *TraineeHandler) ListMyAssignments(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	details, err := h.assignmentService.ListByTrainee(c.Request.Context(), callerID, callerRole, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// LogWorkout records a completed workout for the authenticated trainee.
func (h *TraineeHandler) LogWorkout(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	templateID, err := parseHexID(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid templateId format")
		return
	}

	log := domain.WorkoutLog{
		TemplateID: templateID,
		Duration:   req.Duration,
		Results:    req.Results,
		Notes:      req.Notes,
	}
	if req.AssignmentID != nil {
		assignmentID, err := parseHexID(*req.AssignmentID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid assignmentId format")
			return
		}
		log.AssignmentID = &assignmentID
	}
	if req.CompletedAt != nil {
		log.CompletedAt = *req.CompletedAt
	}
	log.CompletedExercises = make([]primitive.ObjectID, 0, len(req.CompletedExercises))
	for _, hex := range req.CompletedExercises {
		exerciseID, err := parseHexID(hex)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid completedExercises entry")
			return
		}
		log.CompletedExercises = append(log.CompletedExercises, exerciseID)
	}

	created, err := h.workoutService.LogWorkout(c.Request.Context(), callerID, log)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetMyHistory returns the trainee's own workout logs, newest first.
func (h *TraineeHandler) GetMyHistory(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	history, err := h.workoutService.GetHistory(c.Request.Context(), callerID, callerRole, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// --- Enrollment ---

// Enroll adds the trainee to a class.
func (h *TraineeHandler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	classID, err := parseHexID(req.ClassID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid classId format")
		return
	}

	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), callerID, classID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// Drop transitions the trainee's active enrollment to dropped.
func (h *TraineeHandler) Drop(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "classId")
	if !ok {
		return
	}
	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.enrollmentService.Drop(c.Request.Context(), callerID, classID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMyEnrollments returns the trainee's enrollment history, newest first.
func (h *TraineeHandler) ListMyEnrollments(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	details, err := h.enrollmentService.ListByTrainee(c.Request.Context(), callerID, callerRole, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// --- Attendance & progress ---

// GetMyAttendance returns the trainee's attendance records, newest first.
func (h *TraineeHandler) GetMyAttendance(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	records, err := h.attendanceService.HistoryByTrainee(c.Request.Context(), callerID, callerRole, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetMyAttendanceRate reports the trainee's own 30-day attendance percentage.
func (h *TraineeHandler) GetMyAttendanceRate(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	rate, err := h.reportService.TraineeAttendanceRate(c.Request.Context(), callerID, callerRole, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendanceRate": rate})
}

// RecordMeasurement appends a progress entry for the trainee.
func (h *TraineeHandler) RecordMeasurement(c *gin.Context) {
	var req RecordMeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	measurement, err := h.workoutService.RecordMeasurement(c.Request.Context(), callerID, domain.ProgressMeasurement{
		Kind:    req.Kind,
		Weight:  req.Weight,
		BodyFat: req.BodyFat,
		Name:    req.Name,
		Value:   req.Value,
		Unit:    req.Unit,
		Notes:   req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, measurement)
}

// GetMyMeasurements returns the trainee's progress log, newest first.
func (h *TraineeHandler) GetMyMeasurements(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	measurements, err := h.workoutService.GetMeasurements(c.Request.Context(), callerID, callerRole, callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, measurements)
}
