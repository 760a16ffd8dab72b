package handlers

import (
	"net/http"
	"time"

	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
	userService    *services.UserService
}

func NewAttemptHandler(attemptService *services.AttemptService, userService *services.UserService) *AttemptHandler {
	return &AttemptHandler{
		attemptService: attemptService,
		userService:    userService,
	}
}

type SubmitAttemptRequest struct {
	Answers map[uint]string `json:"answers"`
}

// SubmitAttempt grades a direct submission: a map from question id to
// answer text, graded in one shot without a taking session.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	quizID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.DefaultUser()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.attemptService.Submit(quizID, user.ID, req.Answers, time.Time{})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
