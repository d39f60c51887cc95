package routes

import (
	"net/http"

	"quizvote/handlers"
	"quizvote/middleware"
	"quizvote/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	voteHandler *handlers.VoteHandler,
	userHandler *handlers.UserHandler,
	authService *services.AuthService,
	userService *services.UserService,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public read routes
		api.GET("/quizzes", quizHandler.List)
		api.GET("/quizzes/random", quizHandler.GetRandom)
		api.GET("/quizzes/:id", quizHandler.GetByID)
		api.GET("/quizzes/:id/stats", quizHandler.GetStats)
		api.GET("/categories", quizHandler.ListCategories)
		api.GET("/categories/stats", quizHandler.GetCategoryStats)

		api.GET("/votes", voteHandler.ListActive)
		api.GET("/votes/:id", voteHandler.GetByID)
		api.GET("/votes/:id/results", voteHandler.GetResults)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			protected.POST("/quizzes/:id/attempts", quizHandler.RecordAttempt)

			protected.POST("/votes/:id/ballots", voteHandler.Submit)
			protected.GET("/votes/:id/ballot", voteHandler.HasVoted)

			protected.GET("/users/me/votes", userHandler.GetVoteHistory)
			protected.GET("/users/me/quizzes", userHandler.GetQuizHistory)

			// Admin routes
			admin := protected.Group("/")
			admin.Use(middleware.RequireAdmin(userService))
			{
				admin.POST("/quizzes", quizHandler.Create)
				admin.PUT("/quizzes/:id", quizHandler.Update)
				admin.DELETE("/quizzes/:id", quizHandler.Delete)

				admin.POST("/votes", voteHandler.Create)

				admin.GET("/users", userHandler.List)
				admin.GET("/users/:id", userHandler.GetByID)
				admin.PUT("/users/:id", userHandler.Update)
				admin.DELETE("/users/:id", userHandler.Delete)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
