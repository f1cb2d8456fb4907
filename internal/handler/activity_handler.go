package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) GetFeed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	activities, err := h.activityService.Feed(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToActivityResponses(activities))
}

func (h *ActivityHandler) GetRoomFeed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	activities, err := h.activityService.RoomFeed(c.Request.Context(), roomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToActivityResponses(activities))
}
