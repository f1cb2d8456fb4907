package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"peerchat-service/internal/broker"
	"peerchat-service/internal/client"
	"peerchat-service/internal/config"
	"peerchat-service/internal/handler"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/repository"
	"peerchat-service/internal/service"
	"peerchat-service/internal/ws"
)

// Setup wires repositories, services, and handlers onto a gin engine.
func Setup(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, eventBroker broker.Broker, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.MetricsMiddleware())

	// Repositories
	roomRepo := repository.NewRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	presenceRepo := repository.NewPresenceRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	supportRepo := repository.NewSupportRequestRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// External collaborators
	directory := client.NewDirectoryClient(cfg.Services.DirectoryServiceURL, 10*time.Second)
	moderation := client.NewModerationClient(cfg.Services.ModerationServiceURL, 10*time.Second)

	// Services
	roomService := service.NewRoomService(roomRepo, activityRepo, logger)
	messageService := service.NewMessageService(messageRepo, roomRepo, activityRepo, eventBroker, moderation, logger)
	invitationService := service.NewInvitationService(invitationRepo, roomRepo, activityRepo, logger)
	presenceService := service.NewPresenceService(presenceRepo, roomRepo, logger)
	activityService := service.NewActivityService(activityRepo, roomRepo)
	supportService := service.NewSupportRequestService(supportRepo, roomRepo, logger)
	statsService := service.NewStatsService(statsRepo, roomRepo)

	// Token validation
	validator := middleware.NewAuthServiceValidator(cfg.Auth.ServiceURL, cfg.Auth.SecretKey, logger)

	// Handlers
	roomHandler := handler.NewRoomHandler(roomService)
	messageHandler := handler.NewMessageHandler(messageService, directory, logger)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	presenceHandler := handler.NewPresenceHandler(presenceService)
	activityHandler := handler.NewActivityHandler(activityService)
	supportHandler := handler.NewSupportHandler(supportService)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(db, redisClient)
	wsHandler := ws.NewHandler(validator, directory, roomService, messageService, presenceService, eventBroker, logger)

	// Health endpoints (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", middleware.MetricsHandler())

	api := r.Group(cfg.Server.BasePath)
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)

		// The socket endpoint authenticates via query token itself so
		// anonymous clients get a proper error frame, not a 401 page.
		api.GET("/ws/rooms/:roomId", wsHandler.HandleRoomSocket)

		authenticated := api.Group("")
		authenticated.Use(middleware.AuthMiddleware(validator))
		{
			// Rooms
			authenticated.POST("/rooms", roomHandler.CreateRoom)
			authenticated.GET("/rooms", roomHandler.ListRooms)
			authenticated.GET("/rooms/:roomId", roomHandler.GetRoom)
			authenticated.PUT("/rooms/:roomId", roomHandler.UpdateRoom)
			authenticated.DELETE("/rooms/:roomId", roomHandler.DeleteRoom)
			authenticated.POST("/rooms/:roomId/join", roomHandler.JoinRoom)
			authenticated.POST("/rooms/:roomId/leave", roomHandler.LeaveRoom)
			authenticated.GET("/rooms/:roomId/participants", roomHandler.GetParticipants)

			// Messages
			authenticated.POST("/rooms/:roomId/messages", messageHandler.SendMessage)
			authenticated.GET("/rooms/:roomId/messages", messageHandler.ListMessages)
			authenticated.GET("/messages/:messageId", messageHandler.GetMessage)
			authenticated.PUT("/messages/:messageId", messageHandler.EditMessage)
			authenticated.DELETE("/messages/:messageId", messageHandler.DeleteMessage)
			authenticated.POST("/messages/:messageId/flag", messageHandler.FlagMessage)
			authenticated.POST("/messages/:messageId/reactions", messageHandler.ToggleReaction)
			authenticated.GET("/messages/:messageId/reactions", messageHandler.GetReactions)

			// Invitations
			authenticated.POST("/rooms/:roomId/invitations", invitationHandler.CreateInvitation)
			authenticated.GET("/invitations", invitationHandler.ListInvitations)
			authenticated.POST("/invitations/:invitationId/respond", invitationHandler.RespondInvitation)

			// Presence
			authenticated.GET("/rooms/:roomId/presence", presenceHandler.GetRoomPresence)
			authenticated.PUT("/rooms/:roomId/presence", presenceHandler.SetStatus)

			// Support requests
			authenticated.POST("/rooms/:roomId/support-requests", supportHandler.CreateSupportRequest)
			authenticated.GET("/rooms/:roomId/support-requests", supportHandler.ListSupportRequests)
			authenticated.GET("/support-requests/:requestId", supportHandler.GetSupportRequest)
			authenticated.PUT("/support-requests/:requestId", supportHandler.UpdateSupportRequest)

			// Activity and stats
			authenticated.GET("/activity", activityHandler.GetFeed)
			authenticated.GET("/rooms/:roomId/activity", activityHandler.GetRoomFeed)
			authenticated.GET("/stats", statsHandler.GetUserStats)
			authenticated.GET("/rooms/:roomId/stats", statsHandler.GetRoomStats)
		}
	}

	return r
}
