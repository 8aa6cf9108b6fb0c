package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quizblog/gateway/internal/chathub"
	"quizblog/gateway/internal/models"
)

type quizStatusRequest struct {
	Status models.QuizStatus `json:"status" binding:"required"`
}

func (h *Handler) SetQuizStatus(c *gin.Context) {
	var req quizStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quizID := c.Param("quizId")
	if err := h.Hub.SetQuizStatus(c.Request.Context(), quizID, req.Status); err != nil {
		h.writeHubError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.QuizStatusChange{QuizID: quizID, Status: req.Status})
}

func (h *Handler) RecordQuizResult(c *gin.Context) {
	var req models.QuizResult
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Hub.RecordQuizResult(c.Request.Context(), c.Param("quizId"), req); err != nil {
		h.writeHubError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeHubError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chathub.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chathub.ErrQuizNotFound), errors.Is(err, chathub.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, chathub.ErrHubStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
