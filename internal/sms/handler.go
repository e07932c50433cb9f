package sms

import (
	"net/http"

	"github.com/jobpopapp/backend/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc sender
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type SendRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// Send godoc
// @Summary      Queue an SMS
// @Tags         sms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SendRequest  true  "SMS payload"
// @Success      202      {object}  api.MessageResponse
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /api/sms/send [post]
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone number and message are required"})
		return
	}

	if err := h.svc.Send(c.Request.Context(), req.PhoneNumber, req.Message); err != nil {
		logger.Errorf("Failed to queue SMS to %s: %v", req.PhoneNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send SMS"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "SMS queued"})
}
