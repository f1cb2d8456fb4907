package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/repository"
)

type StatsService interface {
	UserStats(ctx context.Context, userID uuid.UUID) (*repository.UserStats, error)
	RoomStats(ctx context.Context, roomID, userID uuid.UUID) (*repository.RoomStats, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
	roomRepo  repository.RoomRepository
}

func NewStatsService(statsRepo repository.StatsRepository, roomRepo repository.RoomRepository) StatsService {
	return &statsService{statsRepo: statsRepo, roomRepo: roomRepo}
}

func (s *statsService) UserStats(ctx context.Context, userID uuid.UUID) (*repository.UserStats, error) {
	return s.statsRepo.UserStats(ctx, userID, time.Now())
}

func (s *statsService) RoomStats(ctx context.Context, roomID, userID uuid.UUID) (*repository.RoomStats, error) {
	member, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrRoomNotFound
	}
	return s.statsRepo.RoomStats(ctx, roomID)
}
