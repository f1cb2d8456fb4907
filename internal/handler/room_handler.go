package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

type RoomHandler struct {
	roomService service.RoomService
}

func NewRoomHandler(roomService service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type CreateRoomRequest struct {
	Name            string  `json:"name"`
	RoomKind        string  `json:"room_kind"`
	Description     string  `json:"description"`
	IsPrivate       *bool   `json:"is_private"`
	MaxParticipants *int    `json:"max_participants"`
	IsModerated     bool    `json:"is_moderated"`
	ModeratorID     *string `json:"moderator_id"`
}

type UpdateRoomRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	IsPrivate   *bool   `json:"is_private"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := service.CreateRoomInput{
		Name:            req.Name,
		RoomKind:        domain.RoomKind(req.RoomKind),
		Description:     req.Description,
		IsPrivate:       true,
		MaxParticipants: 2,
		IsModerated:     req.IsModerated,
	}
	if req.IsPrivate != nil {
		input.IsPrivate = *req.IsPrivate
	}
	if req.MaxParticipants != nil {
		input.MaxParticipants = *req.MaxParticipants
	}
	if req.ModeratorID != nil {
		moderatorID, err := uuid.Parse(*req.ModeratorID)
		if err != nil {
			badRequest(c, "Invalid moderator ID")
			return
		}
		input.ModeratorID = &moderatorID
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ToRoomResponse(room))
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToRoomResponse(room))
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	rooms, err := h.roomService.ListRooms(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToRoomResponses(rooms))
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), roomID, userID, service.UpdateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToRoomResponse(room))
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(c.Request.Context(), roomID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *RoomHandler) JoinRoom(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	if err := h.roomService.JoinRoom(c.Request.Context(), roomID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Joined room"})
}

func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	if err := h.roomService.LeaveRoom(c.Request.Context(), roomID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Left room"})
}

func (h *RoomHandler) GetParticipants(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	member, err := h.roomService.IsParticipant(c.Request.Context(), roomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !member {
		handleServiceError(c, domain.ErrNotMember)
		return
	}

	participants, err := h.roomService.Participants(c.Request.Context(), roomID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToParticipantResponses(participants))
}
