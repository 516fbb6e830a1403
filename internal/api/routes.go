package api

import (
	"net/http"

	"gymworks/studio-app/internal/domain"
	"gymworks/studio-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler into the router. All business routes live
// under /api/v1 behind JWT authentication; role gates are applied per group.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	exerciseService service.ExerciseService,
	templateService service.TemplateService,
	assignmentService service.AssignmentService,
	workoutService service.WorkoutService,
	classService service.ClassService,
	enrollmentService service.EnrollmentService,
	attendanceService service.AttendanceService,
	reportService service.ReportService,
	importService service.ImportService,
	maintenanceService service.MaintenanceService,
) {
	authHandler := NewAuthHandler(authService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	adminHandler := NewAdminHandler(userService, templateService, assignmentService, workoutService, reportService, importService, maintenanceService)
	classHandler := NewClassHandler(classService, enrollmentService, attendanceService, reportService)
	traineeHandler := NewTraineeHandler(userService, assignmentService, workoutService, enrollmentService, attendanceService, reportService)

	authMiddleware := AuthMiddleware(jwtSecret)
	coachOnly := RoleMiddleware(domain.RoleAdmin, domain.RoleSuperAdmin)
	superOnly := RoleMiddleware(domain.RoleSuperAdmin)
	traineeOnly := RoleMiddleware(domain.RoleTrainee)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", traineeHandler.GetProfile)
		protected.PATCH("/me", traineeHandler.UpdateProfile)

		// --- Exercise library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.GET("/:id/media", exerciseHandler.GetMediaDownloadURL)

			exerciseGroup.POST("", coachOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PATCH("/:id", coachOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", coachOnly, exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/media", coachOnly, exerciseHandler.RequestMediaUpload)
		}

		// --- Class catalog, sessions, attendance ---
		classGroup := protected.Group("/classes")
		{
			classGroup.GET("", classHandler.ListClasses)
			classGroup.GET("/:id", classHandler.GetClass)
			classGroup.GET("/:id/sessions", classHandler.ListSessions)

			classGroup.POST("", coachOnly, classHandler.CreateClass)
			classGroup.PATCH("/:id", coachOnly, classHandler.UpdateClass)
			classGroup.POST("/:id/deactivate", coachOnly, classHandler.DeactivateClass)
			classGroup.DELETE("/:id", coachOnly, classHandler.DeleteClass)

			classGroup.POST("/:id/sessions", coachOnly, classHandler.ScheduleSession)
			classGroup.GET("/:id/roster", coachOnly, classHandler.GetRoster)
			classGroup.POST("/:id/attendance", coachOnly, classHandler.MarkAttendance)
			classGroup.GET("/:id/attendance", coachOnly, classHandler.GetAttendanceHistory)
			classGroup.GET("/:id/attendance-rate", coachOnly, classHandler.GetAttendanceRate)
		}
		sessionGroup := protected.Group("/sessions")
		sessionGroup.Use(coachOnly)
		{
			sessionGroup.PATCH("/:sessionId", classHandler.UpdateSession)
			sessionGroup.POST("/:sessionId/cancel", classHandler.CancelSession)
		}

		// --- Coaching surface ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(coachOnly)
		{
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.GET("/users/:id", adminHandler.GetUser)
			adminGroup.PATCH("/users/:id", adminHandler.UpdateUser)
			adminGroup.POST("/users/:id/deactivate", adminHandler.DeactivateUser)
			adminGroup.GET("/trainees", adminHandler.ListTrainees)
			adminGroup.POST("/trainees/:id/assign", adminHandler.AssignTrainee)
			adminGroup.GET("/trainees/:id/assignments", adminHandler.ListTraineeAssignments)
			adminGroup.GET("/trainees/:id/history", adminHandler.GetTraineeHistory)
			adminGroup.GET("/trainees/:id/measurements", adminHandler.GetTraineeMeasurements)
			adminGroup.GET("/trainees/:id/attendance-rate", adminHandler.GetTraineeAttendanceRate)

			adminGroup.POST("/templates", adminHandler.CreateTemplate)
			adminGroup.GET("/templates", adminHandler.ListTemplates)
			adminGroup.GET("/templates/:id", adminHandler.GetTemplate)
			adminGroup.PATCH("/templates/:id", adminHandler.UpdateTemplate)
			adminGroup.DELETE("/templates/:id", adminHandler.DeleteTemplate)
			adminGroup.GET("/templates/:id/completion-rate", adminHandler.GetTemplateCompletionRate)

			adminGroup.POST("/assignments", adminHandler.AssignWorkout)
			adminGroup.GET("/assignments", adminHandler.ListAssignments)
			adminGroup.PATCH("/assignments/:id/status", adminHandler.UpdateAssignmentStatus)

			adminGroup.GET("/dashboard", adminHandler.GetDashboard)
			adminGroup.GET("/activity", adminHandler.GetRecentActivity)

			adminGroup.POST("/import", adminHandler.Import)

			adminGroup.GET("/admins", superOnly, adminHandler.ListAdmins)
			adminGroup.POST("/maintenance/orphan-assignments", superOnly, adminHandler.CleanupOrphanAssignments)
		}

		// --- Trainee surface ---
		traineeGroup := protected.Group("/trainee")
		traineeGroup.Use(traineeOnly)
		{
			traineeGroup.GET("/assignments", traineeHandler.ListMyAssignments)
			traineeGroup.POST("/workouts", traineeHandler.LogWorkout)
			traineeGroup.GET("/workouts", traineeHandler.GetMyHistory)

			traineeGroup.POST("/enrollments", traineeHandler.Enroll)
			traineeGroup.DELETE("/enrollments/:classId", traineeHandler.Drop)
			traineeGroup.GET("/enrollments", traineeHandler.ListMyEnrollments)

			traineeGroup.GET("/attendance", traineeHandler.GetMyAttendance)
			traineeGroup.GET("/attendance-rate", traineeHandler.GetMyAttendanceRate)

			traineeGroup.POST("/measurements", traineeHandler.RecordMeasurement)
			traineeGroup.GET("/measurements", traineeHandler.GetMyMeasurements)
		}
	}
}
