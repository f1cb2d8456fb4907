package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/client"
	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

type MessageHandler struct {
	messageService service.MessageService
	directory      client.DirectoryClient
	logger         *zap.Logger
}

func NewMessageHandler(messageService service.MessageService, directory client.DirectoryClient, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		directory:      directory,
		logger:         logger,
	}
}

type SendMessageRequest struct {
	Content     string  `json:"content" binding:"required"`
	MessageKind string  `json:"message_kind"`
	Attachment  *string `json:"attachment"`
	ReplyToID   *string `json:"reply_to_id"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type FlagMessageRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ReactionRequest struct {
	ReactionKind string `json:"reaction_kind" binding:"required"`
}

func (h *MessageHandler) identity(c *gin.Context, userID uuid.UUID) client.Identity {
	identity, err := h.directory.Resolve(c.Request.Context(), userID)
	if err != nil {
		h.logger.Debug("failed to resolve sender identity", zap.Error(err))
		return client.Identity{UserID: userID, Alias: "Unknown", IsAuthenticated: true}
	}
	return *identity
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	input := service.AppendMessageInput{
		MessageKind: domain.MessageKind(req.MessageKind),
		Content:     req.Content,
		Attachment:  req.Attachment,
	}
	if req.ReplyToID != nil {
		replyTo, err := uuid.Parse(*req.ReplyToID)
		if err != nil {
			badRequest(c, "Invalid reply_to_id")
			return
		}
		input.ReplyToID = &replyTo
	}

	message, err := h.messageService.Append(c.Request.Context(), roomID, h.identity(c, userID), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ToMessageResponse(message))
}

func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	roomID, ok := uuidParam(c, "roomId")
	if !ok {
		return
	}

	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)

	messages, err := h.messageService.List(c.Request.Context(), roomID, userID, limit, offset)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToMessageResponses(messages))
}

func (h *MessageHandler) GetMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	messageID, ok := uuidParam(c, "messageId")
	if !ok {
		return
	}

	message, err := h.messageService.Get(c.Request.Context(), messageID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToMessageResponse(message))
}

func (h *MessageHandler) EditMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	messageID, ok := uuidParam(c, "messageId")
	if !ok {
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	message, err := h.messageService.Edit(c.Request.Context(), messageID, userID, req.Content)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ToMessageResponse(message))
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	messageID, ok := uuidParam(c, "messageId")
	if !ok {
		return
	}

	if err := h.messageService.SoftDelete(c.Request.Context(), messageID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MessageHandler) FlagMessage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	messageID, ok := uuidParam(c, "messageId")
	if !ok {
		return
	}

	var req FlagMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.messageService.Flag(c.Request.Context(), messageID, userID, req.Reason); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MessageHandler) ToggleReaction(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	messageID, ok := uuidParam(c, "messageId")
	if !ok {
		return
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	added, err := h.messageService.ToggleReaction(c.Request.Context(), messageID, userID, domain.ReactionKind(req.ReactionKind))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	action := "removed"
	if added {
		action = "added"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "action": action})
}

func (h *MessageHandler) GetReactions(c *gin.Context) {
	if _, ok := middleware.UserID(c); !ok {
		handleServiceError(c, domain.ErrNotAuthenticated)
		return
	}
	messageID, ok := uuidParam(c, "messageId")
	if !ok {
		return
	}

	counts, err := h.messageService.ReactionCounts(c.Request.Context(), messageID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reactions": counts})
}
