package handlers

import (
	"net/http"

	"quizdeck/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
	userService    *services.UserService
	hub            *services.Hub
}

func NewSessionHandler(sessionService *services.SessionService, userService *services.UserService, hub *services.Hub) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		userService:    userService,
		hub:            hub,
	}
}

type RecordAnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Text       string `json:"text"`
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	quizID, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.DefaultUser()
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.sessionService.Start(quizID, user.ID, h.hub)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.sessionService.View(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.sessionService.RecordAnswer(c.Param("token"), req.QuestionID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) NextQuestion(c *gin.Context) {
	view, err := h.sessionService.Next(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	view, err := h.sessionService.Previous(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) SubmitSession(c *gin.Context) {
	result, err := h.sessionService.Submit(c.Param("token"), h.hub)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
