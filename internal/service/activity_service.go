package service

import (
	"context"

	"github.com/google/uuid"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/repository"
)

// FeedSize is how many recent activity rows the feed returns.
const FeedSize = 20

type ActivityService interface {
	Feed(ctx context.Context, userID uuid.UUID) ([]domain.ChatActivity, error)
	RoomFeed(ctx context.Context, roomID, userID uuid.UUID) ([]domain.ChatActivity, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	roomRepo     repository.RoomRepository
}

func NewActivityService(activityRepo repository.ActivityRepository, roomRepo repository.RoomRepository) ActivityService {
	return &activityService{activityRepo: activityRepo, roomRepo: roomRepo}
}

func (s *activityService) Feed(ctx context.Context, userID uuid.UUID) ([]domain.ChatActivity, error) {
	return s.activityRepo.ListByUser(ctx, userID, FeedSize)
}

func (s *activityService) RoomFeed(ctx context.Context, roomID, userID uuid.UUID) ([]domain.ChatActivity, error) {
	member, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}
	return s.activityRepo.ListByRoom(ctx, roomID, FeedSize)
}
