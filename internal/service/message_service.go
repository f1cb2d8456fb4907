package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/broker"
	"peerchat-service/internal/client"
	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/repository"
)

// AppendMessageInput carries a new message body.
type AppendMessageInput struct {
	MessageKind domain.MessageKind
	Content     string
	Attachment  *string
	ReplyToID   *uuid.UUID
}

type MessageService interface {
	Append(ctx context.Context, roomID uuid.UUID, sender client.Identity, input AppendMessageInput) (*domain.Message, error)
	Get(ctx context.Context, messageID, userID uuid.UUID) (*domain.Message, error)
	List(ctx context.Context, roomID, userID uuid.UUID, limit, offset int) ([]domain.Message, error)
	Edit(ctx context.Context, messageID, editorID uuid.UUID, content string) (*domain.Message, error)
	SoftDelete(ctx context.Context, messageID, actorID uuid.UUID) error
	Flag(ctx context.Context, messageID, actorID uuid.UUID, reason string) error
	ToggleReaction(ctx context.Context, messageID, userID uuid.UUID, kind domain.ReactionKind) (added bool, err error)
	ReactionCounts(ctx context.Context, messageID uuid.UUID) (map[domain.ReactionKind]int64, error)
}

type messageService struct {
	messageRepo  repository.MessageRepository
	roomRepo     repository.RoomRepository
	activityRepo repository.ActivityRepository
	broker       broker.Broker
	moderation   client.ModerationClient
	logger       *zap.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	roomRepo repository.RoomRepository,
	activityRepo repository.ActivityRepository,
	b broker.Broker,
	moderation client.ModerationClient,
	logger *zap.Logger,
) MessageService {
	return &messageService{
		messageRepo:  messageRepo,
		roomRepo:     roomRepo,
		activityRepo: activityRepo,
		broker:       b,
		moderation:   moderation,
		logger:       logger,
	}
}

// validateBody bounds the body in characters, not bytes, so multibyte
// text gets the full 2000 either way.
func validateBody(content string) error {
	length := utf8.RuneCountInString(content)
	if length < domain.MinMessageLength {
		return domain.ErrEmptyMessage
	}
	if length > domain.MaxMessageLength {
		return domain.ErrMessageTooLong
	}
	return nil
}

func (s *messageService) Append(ctx context.Context, roomID uuid.UUID, sender client.Identity, input AppendMessageInput) (*domain.Message, error) {
	member, err := s.roomRepo.IsParticipant(ctx, roomID, sender.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	if err := validateBody(input.Content); err != nil {
		return nil, err
	}
	if input.MessageKind == "" {
		input.MessageKind = domain.MessageKindText
	}
	if !domain.ValidMessageKind(input.MessageKind) {
		return nil, domain.ErrInvalidMessageKind
	}
	if input.ReplyToID != nil {
		parent, err := s.messageRepo.FindByID(ctx, *input.ReplyToID)
		if err != nil {
			return nil, err
		}
		if parent.RoomID != roomID {
			return nil, domain.ErrReplyOtherRoom
		}
	}

	message := &domain.Message{
		RoomID:      roomID,
		SenderID:    sender.UserID,
		MessageKind: input.MessageKind,
		Content:     input.Content,
		Attachment:  input.Attachment,
		ReplyToID:   input.ReplyToID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.roomRepo.TouchActivity(ctx, roomID); err != nil {
		s.logger.Warn("failed to bump room activity", zap.Error(err))
	}

	activity := &domain.ChatActivity{
		UserID:       sender.UserID,
		RoomID:       roomID,
		ActivityKind: domain.ActivityMessageSent,
		MessageID:    &message.ID,
	}
	if err := s.activityRepo.Append(ctx, activity); err != nil {
		s.logger.Warn("failed to record message activity", zap.Error(err))
	}

	middleware.RecordMessageSent(string(message.MessageKind))
	s.publishMessage(ctx, message, sender)

	return message, nil
}

// publishMessage fans the committed message out to every live room
// subscriber. Delivery is best effort; the row is already durable.
func (s *messageService) publishMessage(ctx context.Context, message *domain.Message, sender client.Identity) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": "chat_message",
		"message": map[string]interface{}{
			"id":      message.ID.String(),
			"content": message.Content,
			"sender": map[string]interface{}{
				"id":    sender.UserID.String(),
				"alias": sender.Alias,
			},
			"created_at": message.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		s.logger.Error("failed to marshal message event", zap.Error(err))
		return
	}
	if err := s.broker.Publish(ctx, message.RoomID, payload); err != nil {
		s.logger.Warn("failed to publish message event",
			zap.String("room_id", message.RoomID.String()),
			zap.Error(err))
	}
}

func (s *messageService) Get(ctx context.Context, messageID, userID uuid.UUID) (*domain.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	member, err := s.roomRepo.IsParticipant(ctx, message.RoomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrMessageNotFound
	}
	return message, nil
}

func (s *messageService) List(ctx context.Context, roomID, userID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	member, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}
	return s.messageRepo.ListByRoom(ctx, roomID, limit, offset)
}

func (s *messageService) Edit(ctx context.Context, messageID, editorID uuid.UUID, content string) (*domain.Message, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != editorID {
		return nil, domain.ErrForbidden
	}
	if err := validateBody(content); err != nil {
		return nil, err
	}

	now := time.Now()
	message.Content = content
	message.IsEdited = true
	message.EditedAt = &now
	if err := s.messageRepo.Update(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}
	return message, nil
}

func (s *messageService) SoftDelete(ctx context.Context, messageID, actorID uuid.UUID) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != actorID {
		room, err := s.roomRepo.FindByID(ctx, message.RoomID)
		if err != nil {
			return err
		}
		if !room.CanModify(actorID) {
			return domain.ErrForbidden
		}
	}
	return s.messageRepo.SoftDelete(ctx, messageID)
}

func (s *messageService) Flag(ctx context.Context, messageID, actorID uuid.UUID, reason string) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	member, err := s.roomRepo.IsParticipant(ctx, message.RoomID, actorID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotMember
	}

	message.IsFlagged = true
	message.FlaggedReason = reason
	if err := s.messageRepo.Update(ctx, message); err != nil {
		return fmt.Errorf("failed to flag message: %w", err)
	}

	if s.moderation != nil {
		if err := s.moderation.Flag(ctx, "chat_message", messageID, reason); err != nil {
			s.logger.Warn("failed to notify moderation service",
				zap.String("message_id", messageID.String()),
				zap.Error(err))
		}
	}
	return nil
}

func (s *messageService) ToggleReaction(ctx context.Context, messageID, userID uuid.UUID, kind domain.ReactionKind) (bool, error) {
	if !domain.ValidReactionKind(kind) {
		return false, domain.ErrInvalidReactionKind
	}
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	member, err := s.roomRepo.IsParticipant(ctx, message.RoomID, userID)
	if err != nil {
		return false, err
	}
	if !member {
		return false, domain.ErrNotMember
	}

	added, err := s.messageRepo.ToggleReaction(ctx, messageID, userID, kind)
	if err != nil {
		return false, err
	}
	if added {
		activity := &domain.ChatActivity{
			UserID:       userID,
			RoomID:       message.RoomID,
			ActivityKind: domain.ActivityReactionAdded,
			MessageID:    &messageID,
			Metadata:     datatypesJSON(map[string]string{"reaction": string(kind)}),
		}
		if err := s.activityRepo.Append(ctx, activity); err != nil {
			s.logger.Warn("failed to record reaction activity", zap.Error(err))
		}
	}
	return added, nil
}

func (s *messageService) ReactionCounts(ctx context.Context, messageID uuid.UUID) (map[domain.ReactionKind]int64, error) {
	return s.messageRepo.ReactionCounts(ctx, messageID)
}
