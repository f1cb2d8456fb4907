package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"peerchat-service/internal/broker"
	"peerchat-service/internal/domain"
)

type MockRoomRepository struct {
	CreateFunc            func(ctx context.Context, room *domain.Room) error
	FindByIDFunc          func(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	FindByUserFunc        func(ctx context.Context, userID uuid.UUID) ([]domain.Room, error)
	UpdateFunc            func(ctx context.Context, room *domain.Room) error
	DeleteFunc            func(ctx context.Context, id uuid.UUID) error
	TouchActivityFunc     func(ctx context.Context, roomID uuid.UUID) error
	AddParticipantFunc    func(ctx context.Context, roomID, userID uuid.UUID) error
	RemoveParticipantFunc func(ctx context.Context, roomID, userID uuid.UUID) error
	ParticipantsFunc      func(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error)
	IsParticipantFunc     func(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	MemberCountFunc       func(ctx context.Context, roomID uuid.UUID) (int64, error)
}

func (m *MockRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, room)
	}
	return nil
}

func (m *MockRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return &domain.Room{BaseModel: domain.BaseModel{ID: id}}, nil
}

func (m *MockRoomRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Room, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, room)
	}
	return nil
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRoomRepository) TouchActivity(ctx context.Context, roomID uuid.UUID) error {
	if m.TouchActivityFunc != nil {
		return m.TouchActivityFunc(ctx, roomID)
	}
	return nil
}

func (m *MockRoomRepository) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	if m.AddParticipantFunc != nil {
		return m.AddParticipantFunc(ctx, roomID, userID)
	}
	return nil
}

func (m *MockRoomRepository) RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	if m.RemoveParticipantFunc != nil {
		return m.RemoveParticipantFunc(ctx, roomID, userID)
	}
	return nil
}

func (m *MockRoomRepository) Participants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error) {
	if m.ParticipantsFunc != nil {
		return m.ParticipantsFunc(ctx, roomID)
	}
	return nil, nil
}

func (m *MockRoomRepository) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	if m.IsParticipantFunc != nil {
		return m.IsParticipantFunc(ctx, roomID, userID)
	}
	return true, nil
}

func (m *MockRoomRepository) MemberCount(ctx context.Context, roomID uuid.UUID) (int64, error) {
	if m.MemberCountFunc != nil {
		return m.MemberCountFunc(ctx, roomID)
	}
	return 0, nil
}

type MockMessageRepository struct {
	CreateFunc         func(ctx context.Context, message *domain.Message) error
	FindByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListByRoomFunc     func(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]domain.Message, error)
	UpdateFunc         func(ctx context.Context, message *domain.Message) error
	SoftDeleteFunc     func(ctx context.Context, id uuid.UUID) error
	ToggleReactionFunc func(ctx context.Context, messageID, userID uuid.UUID, kind domain.ReactionKind) (bool, error)
	ReactionCountsFunc func(ctx context.Context, messageID uuid.UUID) (map[domain.ReactionKind]int64, error)
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, message)
	}
	message.ID = uuid.New()
	return nil
}

func (m *MockMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrMessageNotFound
}

func (m *MockMessageRepository) ListByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	if m.ListByRoomFunc != nil {
		return m.ListByRoomFunc(ctx, roomID, limit, offset)
	}
	return nil, nil
}

func (m *MockMessageRepository) Update(ctx context.Context, message *domain.Message) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, message)
	}
	return nil
}

func (m *MockMessageRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMessageRepository) ToggleReaction(ctx context.Context, messageID, userID uuid.UUID, kind domain.ReactionKind) (bool, error) {
	if m.ToggleReactionFunc != nil {
		return m.ToggleReactionFunc(ctx, messageID, userID, kind)
	}
	return true, nil
}

func (m *MockMessageRepository) ReactionCounts(ctx context.Context, messageID uuid.UUID) (map[domain.ReactionKind]int64, error) {
	if m.ReactionCountsFunc != nil {
		return m.ReactionCountsFunc(ctx, messageID)
	}
	return map[domain.ReactionKind]int64{}, nil
}

type MockInvitationRepository struct {
	CreateFunc           func(ctx context.Context, invitation *domain.RoomInvitation) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error)
	FindLivePendingFunc  func(ctx context.Context, roomID, inviteeID uuid.UUID, now time.Time) (*domain.RoomInvitation, error)
	FindByPairFunc       func(ctx context.Context, roomID, inviteeID uuid.UUID) (*domain.RoomInvitation, error)
	ListByInviteeFunc    func(ctx context.Context, inviteeID uuid.UUID) ([]domain.RoomInvitation, error)
	UpdateFunc           func(ctx context.Context, invitation *domain.RoomInvitation) error
	MarkStaleExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *domain.RoomInvitation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, invitation)
	}
	invitation.ID = uuid.New()
	return nil
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrInvitationNotFound
}

func (m *MockInvitationRepository) FindLivePending(ctx context.Context, roomID, inviteeID uuid.UUID, now time.Time) (*domain.RoomInvitation, error) {
	if m.FindLivePendingFunc != nil {
		return m.FindLivePendingFunc(ctx, roomID, inviteeID, now)
	}
	return nil, domain.ErrInvitationNotFound
}

func (m *MockInvitationRepository) FindByPair(ctx context.Context, roomID, inviteeID uuid.UUID) (*domain.RoomInvitation, error) {
	if m.FindByPairFunc != nil {
		return m.FindByPairFunc(ctx, roomID, inviteeID)
	}
	return nil, domain.ErrInvitationNotFound
}

func (m *MockInvitationRepository) ListByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]domain.RoomInvitation, error) {
	if m.ListByInviteeFunc != nil {
		return m.ListByInviteeFunc(ctx, inviteeID)
	}
	return nil, nil
}

func (m *MockInvitationRepository) Update(ctx context.Context, invitation *domain.RoomInvitation) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, invitation)
	}
	return nil
}

func (m *MockInvitationRepository) MarkStaleExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.MarkStaleExpiredFunc != nil {
		return m.MarkStaleExpiredFunc(ctx, now)
	}
	return 0, nil
}

type MockActivityRepository struct {
	AppendFunc     func(ctx context.Context, activity *domain.ChatActivity) error
	ListByUserFunc func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatActivity, error)
	ListByRoomFunc func(ctx context.Context, roomID uuid.UUID, limit int) ([]domain.ChatActivity, error)
	ListWindowFunc func(ctx context.Context, from, to time.Time) ([]domain.ChatActivity, error)
}

func (m *MockActivityRepository) Append(ctx context.Context, activity *domain.ChatActivity) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, activity)
	}
	return nil
}

func (m *MockActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatActivity, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *MockActivityRepository) ListByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]domain.ChatActivity, error) {
	if m.ListByRoomFunc != nil {
		return m.ListByRoomFunc(ctx, roomID, limit)
	}
	return nil, nil
}

func (m *MockActivityRepository) ListWindow(ctx context.Context, from, to time.Time) ([]domain.ChatActivity, error) {
	if m.ListWindowFunc != nil {
		return m.ListWindowFunc(ctx, from, to)
	}
	return nil, nil
}

type MockBroker struct {
	PublishFunc func(ctx context.Context, roomID uuid.UUID, payload []byte) error
	Published   [][]byte
}

func (m *MockBroker) Subscribe(roomID uuid.UUID, sub broker.Subscriber)   {}
func (m *MockBroker) Unsubscribe(roomID uuid.UUID, sub broker.Subscriber) {}
func (m *MockBroker) Publish(ctx context.Context, roomID uuid.UUID, payload []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, roomID, payload)
	}
	m.Published = append(m.Published, payload)
	return nil
}
func (m *MockBroker) Close() error { return nil }

type MockModerationClient struct {
	FlagFunc func(ctx context.Context, contentType string, contentID uuid.UUID, reason string) error
}

func (m *MockModerationClient) Flag(ctx context.Context, contentType string, contentID uuid.UUID, reason string) error {
	if m.FlagFunc != nil {
		return m.FlagFunc(ctx, contentType, contentID, reason)
	}
	return nil
}
