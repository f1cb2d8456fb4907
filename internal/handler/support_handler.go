package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

type SupportHandler struct {
	supportService service.SupportRequestService
}

func NewSupportHandler(supportService service.SupportRequestService) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

type CreateSupportRequestRequest struct {
	RequestType string   `json:"request_type"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type UpdateSupportRequestRequest struct {
	Status     *string `json:"status"`
	AssigneeID *string `json:"assignee_id"`
	Priority   *string `json:"priority"`
}

func (h *SupportHandler) CreateSupportRequest(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	var req CreateSupportRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	request, err := h.supportService.Create(c.Request.Context(), roomID, userID, service.CreateSupportRequestInput{
		RequestType: domain.SupportRequestType(req.RequestType),
		Priority:    domain.SupportPriority(req.Priority),
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ToSupportRequestResponse(request))
}

func (h *SupportHandler) ListSupportRequests(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	requests, err := h.supportService.ListByRoom(c.Request.Context(), roomID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToSupportRequestResponses(requests))
}

func (h *SupportHandler) GetSupportRequest(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}

	request, err := h.supportService.Get(c.Request.Context(), requestID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToSupportRequestResponse(request))
}

func (h *SupportHandler) UpdateSupportRequest(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	requestID, ok := uuidParam(c, "requestId")
	if !ok {
		return
	}

	var req UpdateSupportRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := service.UpdateSupportRequestInput{}
	if req.Status != nil {
		status := domain.SupportRequestStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.SupportPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.AssigneeID != nil {
		assigneeID, err := uuid.Parse(*req.AssigneeID)
		if err != nil {
			badRequest(c, "Invalid assignee ID")
			return
		}
		input.AssigneeID = &assigneeID
	}

	request, err := h.supportService.Update(c.Request.Context(), requestID, userID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToSupportRequestResponse(request))
}
