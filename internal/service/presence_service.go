package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/repository"
)

// PresenceService tracks per-room participant status. Status writes are
// last-write-wins; the live relay of status frames is the session's job.
type PresenceService interface {
	Connect(ctx context.Context, roomID, userID uuid.UUID) error
	Disconnect(ctx context.Context, roomID, userID uuid.UUID) error
	SetStatus(ctx context.Context, roomID, userID uuid.UUID, status domain.ParticipantStatus) error
	RoomPresence(ctx context.Context, roomID, userID uuid.UUID) ([]domain.RoomParticipant, error)
}

type presenceService struct {
	presenceRepo *repository.PresenceRepository
	roomRepo     repository.RoomRepository
	logger       *zap.Logger
}

func NewPresenceService(
	presenceRepo *repository.PresenceRepository,
	roomRepo repository.RoomRepository,
	logger *zap.Logger,
) PresenceService {
	return &presenceService{
		presenceRepo: presenceRepo,
		roomRepo:     roomRepo,
		logger:       logger,
	}
}

func (s *presenceService) Connect(ctx context.Context, roomID, userID uuid.UUID) error {
	return s.presenceRepo.SetStatus(ctx, roomID, userID, domain.ParticipantActive)
}

func (s *presenceService) Disconnect(ctx context.Context, roomID, userID uuid.UUID) error {
	return s.presenceRepo.SetStatus(ctx, roomID, userID, domain.ParticipantOffline)
}

// SetStatus records an explicit status change. Unlike Connect, the
// caller has not passed a capacity-checked join, so the upsert is gated
// on membership: without it the insert half of the upsert would let a
// non-member mint a participant row past the room's capacity.
func (s *presenceService) SetStatus(ctx context.Context, roomID, userID uuid.UUID, status domain.ParticipantStatus) error {
	if !domain.ValidParticipantStatus(status) {
		return domain.ErrInvalidStatus
	}
	member, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotMember
	}
	return s.presenceRepo.SetStatus(ctx, roomID, userID, status)
}

func (s *presenceService) RoomPresence(ctx context.Context, roomID, userID uuid.UUID) ([]domain.RoomParticipant, error) {
	member, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}
	return s.presenceRepo.RoomPresence(ctx, roomID)
}
