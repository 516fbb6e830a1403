package api

import (
	"net/http"
	"strconv"
	"time"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler serves the coaching surface: roster management, template
// authoring, workout assignment, reporting and bulk import.
type AdminHandler struct {
	userService        service.UserService
	templateService    service.TemplateService
	assignmentService  service.AssignmentService
	workoutService     service.WorkoutService
	reportService      service.ReportService
	importService      service.ImportService
	maintenanceService service.MaintenanceService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	userService service.UserService,
	templateService service.TemplateService,
	assignmentService service.AssignmentService,
	workoutService service.WorkoutService,
	reportService service.ReportService,
	importService service.ImportService,
	maintenanceService service.MaintenanceService,
) *AdminHandler {
	return &AdminHandler{
		userService:        userService,
		templateService:    templateService,
		assignmentService:  assignmentService,
		workoutService:     workoutService,
		reportService:      reportService,
		importService:      importService,
		maintenanceService: maintenanceService,
	}
}

// --- DTOs ---

type CreateUserRequest struct {
	Name            string      `json:"name" binding:"required"`
	Email           string      `json:"email" binding:"required,email"`
	Password        string      `json:"password" binding:"required,min=8"`
	Role            domain.Role `json:"role" binding:"required,oneof=super_admin admin trainee"`
	AssignedAdminID *string     `json:"assignedAdminId" binding:"omitempty"`
}

type CreateTemplateRequest struct {
	Name        string                        `json:"name" binding:"required"`
	Description string                        `json:"description"`
	Difficulty  string                        `json:"difficulty" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Duration    int                           `json:"duration" binding:"required,gt=0"`
	Exercises   []domain.ExercisePrescription `json:"exercises" binding:"required"`
}

type AssignWorkoutRequest struct {
	TraineeID  string     `json:"traineeId" binding:"required"`
	TemplateID string     `json:"templateId" binding:"required"`
	Weekdays   []int      `json:"weekdays" binding:"omitempty"`
	StartDate  time.Time  `json:"startDate" binding:"required"`
	EndDate    *time.Time `json:"endDate" binding:"omitempty"`
	Notes      string     `json:"notes"`
}

type UpdateAssignmentStatusRequest struct {
	Status domain.AssignmentStatus `json:"status" binding:"required,oneof=active completed cancelled paused"`
	Notes  *string                 `json:"notes"`
}

type AssignTraineeRequest struct {
	AdminID string `json:"adminId" binding:"required"`
}

type ImportRequest struct {
	Exercises []domain.Exercise        `json:"exercises"`
	Templates []domain.WorkoutTemplate `json:"templates"`
}

// --- User management ---

// CreateUser provisions an account. Restricted admins may only create
// trainees, which land on their own roster.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var assignedAdminID *primitive.ObjectID
	if req.AssignedAdminID != nil {
		id, err := primitive.ObjectIDFromHex(*req.AssignedAdminID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid assignedAdminId format")
			return
		}
		assignedAdminID = &id
	}

	user, err := h.userService.CreateUser(c.Request.Context(), callerID, callerRole, req.Name, req.Email, req.Password, req.Role, assignedAdminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// GetUser returns one account, scoped to the caller.
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), callerID, callerRole, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// ListTrainees returns the caller's roster.
func (h *AdminHandler) ListTrainees(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	trainees, err := h.userService.ListTrainees(c.Request.Context(), callerID, callerRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(trainees))
}

// ListAdmins returns the coaching accounts (super admin only).
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	_, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	admins, err := h.userService.ListAdmins(c.Request.Context(), callerRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(admins))
}

// UpdateUser applies a partial profile patch.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

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

	user, err := h.userService.UpdateUser(c.Request.Context(), callerID, callerRole, userID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// AssignTrainee moves a trainee onto an admin's roster.
func (h *AdminHandler) AssignTrainee(c *gin.Context) {
	traineeID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	adminID, err := primitive.ObjectIDFromHex(req.AdminID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid adminId format")
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.userService.AssignTraineeToAdmin(c.Request.Context(), callerID, callerRole, traineeID, adminID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeactivateUser sets an account inactive.
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	userID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), callerID, callerRole, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Templates ---

// CreateTemplate authors a new workout template.
func (h *AdminHandler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), callerID, callerRole, domain.WorkoutTemplate{
		Name:        req.Name,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		Duration:    req.Duration,
		Exercises:   req.Exercises,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// ListTemplates returns templates. ?own=true narrows to the caller's own.
func (h *AdminHandler) ListTemplates(c *gin.Context) {
	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), callerID, c.Query("own") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate returns one template with its exercises resolved.
func (h *AdminHandler) GetTemplate(c *gin.Context) {
	templateID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.templateService.GetTemplateDetail(c.Request.Context(), templateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateTemplate applies a partial patch to a template the caller owns.
func (h *AdminHandler) UpdateTemplate(c *gin.Context) {
	templateID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var update domain.TemplateUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), callerID, callerRole, templateID, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate removes a template the caller owns.
func (h *AdminHandler) DeleteTemplate(c *gin.Context) {
	templateID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), callerID, callerRole, templateID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTemplateCompletionRate reports how completely trainees work through a
// template, as a percentage.
func (h *AdminHandler) GetTemplateCompletionRate(c *gin.Context) {
	templateID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	rate, err := h.reportService.TemplateCompletionRate(c.Request.Context(), templateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completionRate": rate})
}

// --- Assignments ---

// AssignWorkout schedules a template for a trainee on the caller's roster.
func (h *AdminHandler) AssignWorkout(c *gin.Context) {
	var req AssignWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	traineeID, err := primitive.ObjectIDFromHex(req.TraineeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid traineeId format")
		return
	}
	templateID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid templateId format")
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	assignment, err := h.assignmentService.AssignWorkout(
		c.Request.Context(), callerID, callerRole,
		traineeID, templateID, req.Weekdays, req.StartDate, req.EndDate, req.Notes,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments returns the assignments the caller created.
func (h *AdminHandler) ListAssignments(c *gin.Context) {
	callerID, _, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	details, err := h.assignmentService.ListByAdmin(c.Request.Context(), callerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// ListTraineeAssignments returns a trainee's assignments, caller-scoped.
func (h *AdminHandler) ListTraineeAssignments(c *gin.Context) {
	traineeID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	details, err := h.assignmentService.ListByTrainee(c.Request.Context(), callerID, callerRole, traineeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// UpdateAssignmentStatus transitions an assignment's lifecycle status.
func (h *AdminHandler) UpdateAssignmentStatus(c *gin.Context) {
	assignmentID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	assignment, err := h.assignmentService.UpdateStatus(c.Request.Context(), callerID, callerRole, assignmentID, req.Status, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// --- Trainee progress (admin view) ---

// GetTraineeHistory returns a trainee's workout logs, caller-scoped.
func (h *AdminHandler) GetTraineeHistory(c *gin.Context) {
	traineeID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	history, err := h.workoutService.GetHistory(c.Request.Context(), callerID, callerRole, traineeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetTraineeMeasurements returns a trainee's progress log, caller-scoped.
func (h *AdminHandler) GetTraineeMeasurements(c *gin.Context) {
	traineeID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	measurements, err := h.workoutService.GetMeasurements(c.Request.Context(), callerID, callerRole, traineeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, measurements)
}

// --- Reports ---

// GetDashboard aggregates the caller's scoped counts.
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	stats, err := h.reportService.AdminDashboard(c.Request.Context(), callerID, callerRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity returns the merged activity feed, newest first.
// ?limit=N caps the feed (default 10).
func (h *AdminHandler) GetRecentActivity(c *gin.Context) {
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	events, err := h.reportService.RecentActivity(c.Request.Context(), callerID, callerRole, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetTraineeAttendanceRate reports a trainee's 30-day attendance percentage.
func (h *AdminHandler) GetTraineeAttendanceRate(c *gin.Context) {
	traineeID, ok := parseObjectIDParam(c, "id")
	if !ok {
		return
	}
	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	rate, err := h.reportService.TraineeAttendanceRate(c.Request.Context(), callerID, callerRole, traineeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attendanceRate": rate})
}

// --- Import & maintenance ---

// Import ingests spreadsheet-shaped exercise and template records.
func (h *AdminHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	summary, err := h.importService.Import(c.Request.Context(), callerID, callerRole, req.Exercises, req.Templates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CleanupOrphanAssignments reaps assignments with dangling references.
func (h *AdminHandler) CleanupOrphanAssignments(c *gin.Context) {
	_, callerRole, err := callerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	removed, err := h.maintenanceService.CleanupOrphanAssignments(c.Request.Context(), callerRole)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
