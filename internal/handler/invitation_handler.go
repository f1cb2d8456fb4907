package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

type InvitationHandler struct {
	invitationService service.InvitationService
}

func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

type CreateInvitationRequest struct {
	InviteeID string `json:"invitee_id" binding:"required"`
	Message   string `json:"message"`
}

type RespondInvitationRequest struct {
	Accept bool `json:"accept"`
}

func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	inviteeID, err := uuid.Parse(req.InviteeID)
	if err != nil {
		badRequest(c, "Invalid invitee ID")
		return
	}

	invitation, err := h.invitationService.Invite(c.Request.Context(), roomID, userID, inviteeID, req.Message)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ToInvitationResponse(invitation))
}

func (h *InvitationHandler) RespondInvitation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	invitationID, ok := uuidParam(c, "invitationId")
	if !ok {
		return
	}

	var req RespondInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	invitation, err := h.invitationService.Respond(c.Request.Context(), invitationID, userID, req.Accept)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToInvitationResponse(invitation))
}

func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}

	invitations, err := h.invitationService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToInvitationResponses(invitations))
}
