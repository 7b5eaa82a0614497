package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/inkroom/backend/internal/achievements"
	"github.com/inkroom/backend/internal/assignments"
	"github.com/inkroom/backend/internal/auth"
	"github.com/inkroom/backend/internal/classes"
	"github.com/inkroom/backend/internal/config"
	"github.com/inkroom/backend/internal/database"
	"github.com/inkroom/backend/internal/generator"
	"github.com/inkroom/backend/internal/middleware"
	"github.com/inkroom/backend/internal/streaks"
	"github.com/inkroom/backend/internal/submissions"
)

func main() {
	cfg := config.Load()
	auth.JWTSecret = []byte(cfg.JWTSecret)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Stores
	classStore := classes.NewStore(db)
	assignmentStore := assignments.NewStore(db)
	submissionStore := submissions.NewStore(db)
	achievementStore := achievements.NewStore(db)

	// Services
	engine := achievements.NewEngine(achievementStore, achievementStore, submissionStore, classStore)
	tracker := streaks.NewTracker(classStore, assignmentStore, submissionStore, engine)
	classService := classes.NewService(classStore)
	submissionService := submissions.NewService(submissionStore, assignmentStore, classStore, tracker)
	achievementService := achievements.NewService(achievementStore)
	gen := generator.NewGenerator(cfg.AnthropicModel, cfg.MockGenerator)

	// Handlers
	authHandler := auth.NewHandler(db, classStore, tracker)
	classHandler := classes.NewHandler(classService)
	assignmentHandler := assignments.NewHandler(assignmentStore)
	submissionHandler := submissions.NewHandler(submissionService)
	achievementHandler := achievements.NewHandler(achievementService)
	generatorHandler := generator.NewHandler(gen)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/student-login", authHandler.StudentLogin).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/auth/password", authHandler.ChangePassword).Methods("PUT")

	protected.HandleFunc("/assignments", assignmentHandler.ListAssignments).Methods("GET")
	protected.HandleFunc("/assignments/{id}", assignmentHandler.GetAssignment).Methods("GET")

	protected.HandleFunc("/submissions", submissionHandler.SubmitQuiz).Methods("POST")
	protected.HandleFunc("/submissions/mine", submissionHandler.MySubmissions).Methods("GET")
	protected.HandleFunc("/assignments/{id}/my-submission", submissionHandler.MySubmissionForAssignment).Methods("GET")

	protected.HandleFunc("/achievements/mine", achievementHandler.MyAchievements).Methods("GET")

	// Teacher-only routes
	teacher := protected.PathPrefix("").Subrouter()
	teacher.Use(middleware.RequireTeacher)

	teacher.HandleFunc("/classes", classHandler.CreateClass).Methods("POST")
	teacher.HandleFunc("/classes", classHandler.ListClasses).Methods("GET")
	teacher.HandleFunc("/classes/{id}", classHandler.GetClass).Methods("GET")
	teacher.HandleFunc("/classes/{id}", classHandler.DeleteClass).Methods("DELETE")
	teacher.HandleFunc("/classes/{id}/students", classHandler.AddStudents).Methods("POST")
	teacher.HandleFunc("/classes/{id}/submissions", submissionHandler.ListByClass).Methods("GET")
	teacher.HandleFunc("/students/{studentId}", classHandler.RemoveStudent).Methods("DELETE")
	teacher.HandleFunc("/students/{studentId}/reset-password", classHandler.ResetStudentPassword).Methods("POST")

	teacher.HandleFunc("/assignments", assignmentHandler.CreateAssignment).Methods("POST")
	teacher.HandleFunc("/assignments/{id}", assignmentHandler.UpdateAssignment).Methods("PUT")
	teacher.HandleFunc("/assignments/{id}", assignmentHandler.DeleteAssignment).Methods("DELETE")
	teacher.HandleFunc("/assignments/{id}/submissions", submissionHandler.ListByAssignment).Methods("GET")

	teacher.HandleFunc("/achievements", achievementHandler.ListAchievements).Methods("GET")
	teacher.HandleFunc("/achievements", achievementHandler.CreateAchievement).Methods("POST")
	teacher.HandleFunc("/achievements/{id}", achievementHandler.UpdateAchievement).Methods("PUT")
	teacher.HandleFunc("/achievements/{id}", achievementHandler.DeleteAchievement).Methods("DELETE")

	teacher.HandleFunc("/generate/article", generatorHandler.GenerateArticle).Methods("POST")
	teacher.HandleFunc("/generate/questions", generatorHandler.GenerateQuestions).Methods("POST")
	teacher.HandleFunc("/generate/analysis", generatorHandler.GenerateAnalysis).Methods("POST")
	teacher.HandleFunc("/generate/achievement-idea", generatorHandler.GenerateAchievementIdea).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
