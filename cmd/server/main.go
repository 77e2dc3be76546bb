package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/abacus-tasks/internal/config"
	"github.com/yukikurage/abacus-tasks/internal/database"
	"github.com/yukikurage/abacus-tasks/internal/handlers"
	"github.com/yukikurage/abacus-tasks/internal/logger"
	"github.com/yukikurage/abacus-tasks/internal/middleware"
	"github.com/yukikurage/abacus-tasks/internal/repository"
	"github.com/yukikurage/abacus-tasks/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.GinMode, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}

	ids, err := services.NewTaskIDPolicy(cfg.TaskIDPolicy)
	if err != nil {
		zlog.Fatal("Invalid task id policy", zap.Error(err))
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	store := repository.NewStore(db)
	taskService := services.NewTaskService(store, ids, aiService, zlog)
	userService := services.NewUserService(store, zlog)

	// Initialize Gin router
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(zlog), middleware.RequestLogger(zlog))

	handlers.RegisterRoutes(r,
		handlers.NewHealthHandler(db),
		handlers.NewTaskHandler(taskService, zlog),
		handlers.NewUserHandler(userService, zlog),
	)

	// Start server
	addr := ":" + cfg.ServerPort
	zlog.Info("Server starting", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
	if err := r.Run(addr); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
