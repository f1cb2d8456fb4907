package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/repository"
)

// CreateRoomInput carries the caller-settable room fields.
type CreateRoomInput struct {
	Name            string
	RoomKind        domain.RoomKind
	Description     string
	IsPrivate       bool
	MaxParticipants int
	IsModerated     bool
	ModeratorID     *uuid.UUID
}

// UpdateRoomInput carries the mutable room metadata.
type UpdateRoomInput struct {
	Name        *string
	Description *string
	IsActive    *bool
	IsPrivate   *bool
}

type RoomService interface {
	CreateRoom(ctx context.Context, creatorID uuid.UUID, input CreateRoomInput) (*domain.Room, error)
	GetRoom(ctx context.Context, roomID, userID uuid.UUID) (*domain.Room, error)
	ListRooms(ctx context.Context, userID uuid.UUID) ([]domain.Room, error)
	UpdateRoom(ctx context.Context, roomID, userID uuid.UUID, input UpdateRoomInput) (*domain.Room, error)
	DeleteRoom(ctx context.Context, roomID, userID uuid.UUID) error

	JoinRoom(ctx context.Context, roomID, userID uuid.UUID) error
	LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) error
	Participants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error)
	IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	AllowsAnonymous(ctx context.Context, roomID uuid.UUID) (bool, error)
}

type roomService struct {
	roomRepo     repository.RoomRepository
	activityRepo repository.ActivityRepository
	logger       *zap.Logger
}

func NewRoomService(
	roomRepo repository.RoomRepository,
	activityRepo repository.ActivityRepository,
	logger *zap.Logger,
) RoomService {
	return &roomService{
		roomRepo:     roomRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, creatorID uuid.UUID, input CreateRoomInput) (*domain.Room, error) {
	if len(input.Name) > 100 {
		return nil, domain.ErrNameTooLong
	}
	if input.RoomKind == "" {
		input.RoomKind = domain.RoomKindPeerSupport
	}
	if !domain.ValidRoomKind(input.RoomKind) {
		return nil, domain.ErrInvalidRoomKind
	}
	if input.MaxParticipants < 1 {
		return nil, domain.ErrInvalidCapacity
	}

	room := &domain.Room{
		Name:            input.Name,
		RoomKind:        input.RoomKind,
		Description:     input.Description,
		CreatedBy:       creatorID,
		IsActive:        true,
		IsPrivate:       input.IsPrivate,
		MaxParticipants: input.MaxParticipants,
		IsModerated:     input.IsModerated,
		ModeratorID:     input.ModeratorID,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	// The creator is always a participant.
	if err := s.roomRepo.AddParticipant(ctx, room.ID, creatorID); err != nil {
		return nil, fmt.Errorf("failed to add creator: %w", err)
	}

	middleware.RecordRoomCreated(string(room.RoomKind))
	s.logger.Info("room created",
		zap.String("room_id", room.ID.String()),
		zap.String("room_kind", string(room.RoomKind)),
		zap.String("created_by", creatorID.String()))

	return s.roomRepo.FindByID(ctx, room.ID)
}

func (s *roomService) GetRoom(ctx context.Context, roomID, userID uuid.UUID) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	// Non-participants cannot observe the room at all.
	member, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, userID uuid.UUID) ([]domain.Room, error) {
	return s.roomRepo.FindByUser(ctx, userID)
}

func (s *roomService) UpdateRoom(ctx context.Context, roomID, userID uuid.UUID, input UpdateRoomInput) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.CanModify(userID) {
		return nil, domain.ErrForbidden
	}

	if input.Name != nil {
		if len(*input.Name) > 100 {
			return nil, domain.ErrNameTooLong
		}
		room.Name = *input.Name
	}
	if input.Description != nil {
		room.Description = *input.Description
	}
	if input.IsActive != nil {
		room.IsActive = *input.IsActive
	}
	if input.IsPrivate != nil {
		room.IsPrivate = *input.IsPrivate
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return room, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.CanModify(userID) {
		return domain.ErrForbidden
	}
	return s.roomRepo.Delete(ctx, roomID)
}

func (s *roomService) JoinRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	if err := s.roomRepo.AddParticipant(ctx, roomID, userID); err != nil {
		return err
	}

	activity := &domain.ChatActivity{
		UserID:       userID,
		RoomID:       roomID,
		ActivityKind: domain.ActivityRoomJoined,
	}
	if err := s.activityRepo.Append(ctx, activity); err != nil {
		s.logger.Warn("failed to record join activity", zap.Error(err))
	}
	return nil
}

func (s *roomService) LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		return err
	}
	if err := s.roomRepo.RemoveParticipant(ctx, roomID, userID); err != nil {
		return err
	}

	activity := &domain.ChatActivity{
		UserID:       userID,
		RoomID:       roomID,
		ActivityKind: domain.ActivityRoomLeft,
	}
	if err := s.activityRepo.Append(ctx, activity); err != nil {
		s.logger.Warn("failed to record leave activity", zap.Error(err))
	}
	return nil
}

func (s *roomService) Participants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error) {
	return s.roomRepo.Participants(ctx, roomID)
}

func (s *roomService) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	return s.roomRepo.IsParticipant(ctx, roomID, userID)
}

// AllowsAnonymous reports whether a room accepts observers with no
// identity. Only active public rooms do; private rooms stay invisible
// to anyone outside the participant list.
func (s *roomService) AllowsAnonymous(ctx context.Context, roomID uuid.UUID) (bool, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	return room.IsActive && !room.IsPrivate, nil
}
