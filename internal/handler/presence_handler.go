package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

type PresenceHandler struct {
	presenceService service.PresenceService
}

func NewPresenceHandler(presenceService service.PresenceService) *PresenceHandler {
	return &PresenceHandler{presenceService: presenceService}
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PresenceHandler) GetRoomPresence(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	participants, err := h.presenceService.RoomPresence(c.Request.Context(), roomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToParticipantResponses(participants))
}

func (h *PresenceHandler) SetStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.presenceService.SetStatus(c.Request.Context(), roomID, userID, domain.ParticipantStatus(req.Status)); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
