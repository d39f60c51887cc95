package main

import (
	"log"

	"quizvote/config"
	"quizvote/handlers"
	"quizvote/middleware"
	"quizvote/models"
	"quizvote/routes"
	"quizvote/services"

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
		&models.QuizAttempt{},
		&models.QuizCategory{},
		&models.Vote{},
		&models.VoteOption{},
		&models.UserVote{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize services
	userService := services.NewUserService(db)
	authService := services.NewAuthService(userService, cfg.JWTSecret)
	quizService := services.NewQuizService(db)
	voteService := services.NewVoteService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	quizHandler := handlers.NewQuizHandler(quizService)
	voteHandler := handlers.NewVoteHandler(voteService)
	userHandler := handlers.NewUserHandler(userService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, voteHandler, userHandler, authService, userService)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
