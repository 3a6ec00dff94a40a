package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/laptrinhjava/task-planner-api/internal/config"
	"github.com/laptrinhjava/task-planner-api/internal/constants"
	"github.com/laptrinhjava/task-planner-api/internal/database"
	"github.com/laptrinhjava/task-planner-api/internal/handlers"
	"github.com/laptrinhjava/task-planner-api/internal/middleware"
	"github.com/laptrinhjava/task-planner-api/internal/oauth"
	"github.com/laptrinhjava/task-planner-api/internal/repository"
	"github.com/laptrinhjava/task-planner-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	isProduction := cfg.GinMode == "release"

	var logger *zap.Logger
	var err error
	if isProduction {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	// Setup cookie-backed session middleware
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// CORS restricted to the frontend origin, cookies allowed
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Authorization", "Cache-Control", "Content-Type", "X-Requested-With", "Accept", "Origin", "Cookie"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, cfg.DefaultUserRole)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)

	provider := oauth.NewGoogleProvider(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, provider, cfg.FrontendURL, logger)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Liveness endpoint
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend is running!")
	})

	// OAuth2 login flow (public)
	r.GET("/oauth2/google", authHandler.GoogleLogin)
	r.GET("/login/oauth2/code/google", authHandler.GoogleCallback)

	// API routes
	api := r.Group("/api")
	{
		api.POST("/logout", authHandler.Logout)
		api.GET("/users/me", middleware.RequireAuth(), authHandler.GetCurrentUser)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/tasks", taskHandler.ListProjectTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/assigned", taskHandler.ListAssignedTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
