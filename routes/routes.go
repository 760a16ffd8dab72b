package routes

import (
	"log"
	"net/http"

	"quizdeck/handlers"
	"quizdeck/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	quizHandler *handlers.QuizHandler,
	attemptHandler *handlers.AttemptHandler,
	sessionHandler *handlers.SessionHandler,
	hub *services.Hub,
	sessionService *services.SessionService,
) {
	api := router.Group("/api")
	{
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("/:id", quizHandler.GetQuizByID)
			quizzes.PUT("/:id", quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)

			quizzes.GET("/:id/questions", quizHandler.ListQuestions)
			quizzes.POST("/:id/questions", quizHandler.AddQuestion)

			quizzes.POST("/:id/submit", attemptHandler.SubmitAttempt)
			quizzes.GET("/:id/debug", quizHandler.DebugSnapshot)

			quizzes.POST("/:id/sessions", sessionHandler.StartSession)
		}

		sessions := api.Group("/sessions")
		{
			sessions.GET("/:token", sessionHandler.GetSession)
			sessions.POST("/:token/answer", sessionHandler.RecordAnswer)
			sessions.POST("/:token/next", sessionHandler.NextQuestion)
			sessions.POST("/:token/previous", sessionHandler.PreviousQuestion)
			sessions.POST("/:token/submit", sessionHandler.SubmitSession)
		}
	}

	// WebSocket endpoint streaming taking-session lifecycle events.
	router.GET("/ws/sessions/:token", func(c *gin.Context) {
		token := c.Param("token")

		// Reject unknown tokens before upgrading.
		if _, err := sessionService.View(token); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for session %s: %v", token, err)
			return
		}

		hub.RegisterClient(conn, token)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
