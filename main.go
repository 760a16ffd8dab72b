package main

import (
	"log"

	"quizdeck/config"
	"quizdeck/handlers"
	"quizdeck/middleware"
	"quizdeck/models"
	"quizdeck/routes"
	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.Attempt{},
		&models.AttemptAnswer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	userService := services.NewUserService(db)
	quizService := services.NewQuizService(db)
	attemptService := services.NewAttemptService(db)
	sessionService := services.NewSessionService(quizService, attemptService, redisClient)

	// Seed the default admin user (the system has no authentication)
	if _, err := userService.EnsureDefaultUser(); err != nil {
		log.Fatal("Failed to seed default user:", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub(sessionService)
	go hub.Run()

	// Initialize handlers
	quizHandler := handlers.NewQuizHandler(quizService, userService)
	attemptHandler := handlers.NewAttemptHandler(attemptService, userService)
	sessionHandler := handlers.NewSessionHandler(sessionService, userService, hub)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, quizHandler, attemptHandler, sessionHandler, hub, sessionService)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
