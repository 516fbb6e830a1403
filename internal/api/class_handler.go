package api

import (
	"net/http"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ClassHandler serves the class catalog, session scheduling, enrollment
// rosters and attendance marking.
type ClassHandler struct {
	classService      service.ClassService
	enrollmentService service.EnrollmentService
	attendanceService service.AttendanceService
	reportService     service.ReportService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(
	classService service.ClassService,
	enrollmentService service.EnrollmentService,
	attendanceService service.AttendanceService,
	reportService service.ReportService,
) *ClassHandler {
	return &ClassHandler{
		classService:      classService,
		enrollmentService: enrollmentService,
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// --- DTOs ---

type CreateClassRequest struct {
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Level        string `json:"level"`
	Capacity     int    `json:"capacity" binding:"required,gt=0"`
	Duration     int    `json:"duration" binding:"required,gt=0"`
	InstructorID string `json:"instructorId" binding:"omitempty"`
	Location     string `json:"location"`
	Schedule     string `json:"schedule"`
}

type ScheduleSessionRequest struct {
	StartAt  time.Time `json:"startAt" binding:"required"`
	EndAt    time.Time `json:"endAt" binding:"required"`
	Location *string   `json:"location"`
	Capacity *int      `json:"capacity"`
	Notes    string    `json:"notes"`
}

type MarkAttendanceRequest struct {
	TraineeID    string                  `json:"traineeId" binding:"required"`
	ScheduleDate time.Time               `json:"scheduleDate" binding:"required"`
	Status       domain.AttendanceStatus `json:"status" binding:"required,oneof=present absent late"`
	Notes        string                  `json:"notes"`
}

// --- Classes ---

// CreateClass defines a new class with the caller as instructor.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	class := domain.Class{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Level:       req.Level,
		Capacity:    req.Capacity,
		Duration:    req.Duration,
		Location:    req.Location,
		Schedule:    req.Schedule,
	}
	if req.InstructorID != "" {
		instructorID, err := parseHexID(req.InstructorID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid instructorId format")
			return
		}
		class.InstructorID = instructorID
	}

	created, err := h.classService.CreateClass(c.Request.Context(), callerID, callerRole, class)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListClasses returns the catalog with instructor and enrollment counts.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	details, err := h.classService.ListClasses(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetClass returns one class.
func (h *ClassHandler) GetClass(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	class, err := h.classService.GetClassByID(c.Request.Context(), classID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// UpdateClass applies a partial patch, instructor-scoped.
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var update domain.ClassUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	class, err := h.classService.UpdateClass(c.Request.Context(), callerID, callerRole, classID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// DeactivateClass retires a class, keeping its history.
func (h *ClassHandler) DeactivateClass(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.classService.DeactivateClass(c.Request.Context(), callerID, callerRole, classID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteClass hard-deletes a class, cascading to enrollments and sessions.
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.classService.DeleteClass(c.Request.Context(), callerID, callerRole, classID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Sessions ---

// ScheduleSession creates one concrete occurrence of a class.
func (h *ClassHandler) ScheduleSession(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req ScheduleSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	session, err := h.classService.ScheduleSession(
		c.Request.Context(), callerID, callerRole, classID,
		req.StartAt, req.EndAt, req.Location, req.Capacity, req.Notes,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// ListSessions returns a class's sessions, soonest first.
func (h *ClassHandler) ListSessions(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	sessions, err := h.classService.ListSessions(c.Request.Context(), classID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// UpdateSession patches a session, instructor-scoped through its class.
func (h *ClassHandler) UpdateSession(c *gin.Context) {
	sessionID, ok := parseObjectIDParam(c, "sessionId")
	if !ok {
		return
	}

	var update domain.SessionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	session, err := h.classService.UpdateSession(c.Request.Context(), callerID, callerRole, sessionID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// CancelSession marks a session cancelled.
func (h *ClassHandler) CancelSession(c *gin.Context) {
	sessionID, ok := parseObjectIDParam(c, "sessionId")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.classService.CancelSession(c.Request.Context(), callerID, callerRole, sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Roster & attendance ---

// GetRoster lists a class's enrollment rows for its instructor.
func (h *ClassHandler) GetRoster(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	roster, err := h.enrollmentService.Roster(c.Request.Context(), callerID, callerRole, classID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, roster)
}

// MarkAttendance upserts an attendance record for the class.
func (h *ClassHandler) MarkAttendance(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	traineeID, err := parseHexID(req.TraineeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid traineeId format")
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	record, err := h.attendanceService.Mark(
		c.Request.Context(), callerID, callerRole,
		classID, traineeID, req.ScheduleDate, req.Status, req.Notes,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetAttendanceHistory returns a class's attendance records, newest first.
func (h *ClassHandler) GetAttendanceHistory(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	records, err := h.attendanceService.HistoryByClass(c.Request.Context(), callerID, callerRole, classID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetAttendanceRate reports the class's 30-day attendance percentage.
func (h *ClassHandler) GetAttendanceRate(c *gin.Context) {
	classID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	rate, err := h.reportService.ClassAttendanceRate(c.Request.Context(), callerID, callerRole, classID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendanceRate": rate})
}
