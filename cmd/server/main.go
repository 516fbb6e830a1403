package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymworks/studio-app/internal/api"
	"gymworks/studio-app/internal/config"
	"gymworks/studio-app/internal/repository/mongo"
	"gymworks/studio-app/internal/service"
	"gymworks/studio-app/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Studio App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureTemplateIndexes(ctx, appDB.Collection("workout_templates"))
		mongo.EnsureAssignmentIndexes(ctx, appDB.Collection("workout_assignments"))
		mongo.EnsureWorkoutLogIndexes(ctx, appDB.Collection("workout_logs"))
		mongo.EnsureClassIndexes(ctx, appDB.Collection("classes"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("class_sessions"))
		mongo.EnsureEnrollmentIndexes(ctx, appDB.Collection("class_enrollments"))
		mongo.EnsureAttendanceIndexes(ctx, appDB.Collection("attendance"))
		mongo.EnsureProgressIndexes(ctx, appDB.Collection("progress_measurements"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	templateRepo := mongo.NewMongoTemplateRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	classRepo := mongo.NewMongoClassRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	enrollmentRepo := mongo.NewMongoEnrollmentRepository(appDB)
	attendanceRepo := mongo.NewMongoAttendanceRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(userRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)
	templateService := service.NewTemplateService(templateRepo, exerciseRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, templateRepo, userRepo)
	workoutService := service.NewWorkoutService(workoutLogRepo, progressRepo, templateRepo, assignmentRepo, userRepo)
	classService := service.NewClassService(classRepo, sessionRepo, enrollmentRepo, userRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, classRepo, userRepo)
	attendanceService := service.NewAttendanceService(attendanceRepo, enrollmentRepo, classRepo, userRepo)
	reportService := service.NewReportService(userRepo, classRepo, assignmentRepo, enrollmentRepo, attendanceRepo, templateRepo, workoutLogRepo)
	importService := service.NewImportService(exerciseService, templateService)
	maintenanceService := service.NewMaintenanceService(assignmentRepo, templateRepo, userRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		authService,
		userService,
		exerciseService,
		templateService,
		assignmentService,
		workoutService,
		classService,
		enrollmentService,
		attendanceService,
		reportService,
		importService,
		maintenanceService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
