package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gorilla/websocket"

	"peerchat-service/internal/broker"
	"peerchat-service/internal/client"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades room socket requests and runs the resulting sessions.
type Handler struct {
	validator middleware.TokenValidator
	directory client.DirectoryClient
	rooms     service.RoomService
	messages  service.MessageService
	presence  service.PresenceService
	broker    broker.Broker
	logger    *zap.Logger
}

func NewHandler(
	validator middleware.TokenValidator,
	directory client.DirectoryClient,
	rooms service.RoomService,
	messages service.MessageService,
	presence service.PresenceService,
	b broker.Broker,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		validator: validator,
		directory: directory,
		rooms:     rooms,
		messages:  messages,
		presence:  presence,
		broker:    b,
		logger:    logger,
	}
}

// HandleRoomSocket connects a client to a room channel. The token is
// optional: anonymous clients may observe active public rooms, but any
// frame they send that requires identity is answered with an error
// frame. Private and inactive rooms are reserved for participants, and
// an anonymous caller cannot tell them apart from missing ones.
func (h *Handler) HandleRoomSocket(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "VALIDATION_ERROR", "message": "Invalid room ID"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	identity := h.resolveIdentity(ctx, c.Query("token"))

	if identity.IsAuthenticated {
		member, err := h.rooms.IsParticipant(ctx, roomID, identity.UserID)
		if err != nil || !member {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "Not a participant"},
			})
			return
		}
	} else {
		open, err := h.rooms.AllowsAnonymous(ctx, roomID)
		if err != nil || !open {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   gin.H{"code": "NOT_FOUND", "message": "Room not found"},
			})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	session := NewSession(conn, roomID, identity, h.broker, h.messages, h.presence, h.logger)
	if err := session.Join(context.Background()); err != nil {
		h.logger.Error("failed to join session", zap.Error(err))
		conn.Close()
		return
	}

	// The request context dies with the HTTP handler; the session owns
	// its own lifetime from here.
	go session.Run(context.Background())
}

func (h *Handler) resolveIdentity(ctx context.Context, token string) client.Identity {
	if token == "" {
		return client.Identity{}
	}

	userID, err := h.validator.ValidateToken(ctx, token)
	if err != nil {
		h.logger.Debug("socket token rejected", zap.Error(err))
		return client.Identity{}
	}

	identity, err := h.directory.Resolve(ctx, userID)
	if err != nil {
		h.logger.Warn("failed to resolve user identity",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return client.Identity{UserID: userID, Alias: "Unknown", IsAuthenticated: true}
	}
	return *identity
}
