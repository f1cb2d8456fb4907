package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/repository"
)

// CreateSupportRequestInput carries a new support request.
type CreateSupportRequestInput struct {
	RequestType domain.SupportRequestType
	Priority    domain.SupportPriority
	Title       string
	Description string
	Tags        []string
}

// UpdateSupportRequestInput carries the mutable request fields.
type UpdateSupportRequestInput struct {
	Status     *domain.SupportRequestStatus
	AssigneeID *uuid.UUID
	Priority   *domain.SupportPriority
}

type SupportRequestService interface {
	Create(ctx context.Context, roomID, requesterID uuid.UUID, input CreateSupportRequestInput) (*domain.SupportRequest, error)
	Get(ctx context.Context, requestID, userID uuid.UUID) (*domain.SupportRequest, error)
	ListByRoom(ctx context.Context, roomID, userID uuid.UUID) ([]domain.SupportRequest, error)
	Update(ctx context.Context, requestID, userID uuid.UUID, input UpdateSupportRequestInput) (*domain.SupportRequest, error)
}

type supportRequestService struct {
	supportRepo repository.SupportRequestRepository
	roomRepo    repository.RoomRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewSupportRequestService(
	supportRepo repository.SupportRequestRepository,
	roomRepo repository.RoomRepository,
	logger *zap.Logger,
) SupportRequestService {
	return &supportRequestService{
		supportRepo: supportRepo,
		roomRepo:    roomRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *supportRequestService) Create(ctx context.Context, roomID, requesterID uuid.UUID, input CreateSupportRequestInput) (*domain.SupportRequest, error) {
	member, err := s.roomRepo.IsParticipant(ctx, roomID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	if input.Title == "" || len(input.Title) > 200 {
		return nil, domain.ErrNameTooLong
	}
	if input.RequestType == "" {
		input.RequestType = domain.SupportEmotional
	}
	if !domain.ValidSupportRequestType(input.RequestType) {
		return nil, domain.ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if !domain.ValidSupportPriority(input.Priority) {
		return nil, domain.ErrInvalidStatus
	}

	request := &domain.SupportRequest{
		RoomID:      roomID,
		RequesterID: requesterID,
		RequestType: input.RequestType,
		Priority:    input.Priority,
		Title:       input.Title,
		Description: input.Description,
		Tags:        datatypesJSON(input.Tags),
		Status:      domain.RequestOpen,
	}
	if err := s.supportRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create support request: %w", err)
	}

	middleware.RecordSupportRequest(string(request.Priority))
	s.logger.Info("support request created",
		zap.String("request_id", request.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.String("priority", string(request.Priority)))
	return request, nil
}

func (s *supportRequestService) Get(ctx context.Context, requestID, userID uuid.UUID) (*domain.SupportRequest, error) {
	request, err := s.supportRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	member, err := s.roomRepo.IsParticipant(ctx, request.RoomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrRequestNotFound
	}
	return request, nil
}

func (s *supportRequestService) ListByRoom(ctx context.Context, roomID, userID uuid.UUID) ([]domain.SupportRequest, error) {
	member, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}
	return s.supportRepo.ListByRoom(ctx, roomID)
}

func (s *supportRequestService) Update(ctx context.Context, requestID, userID uuid.UUID, input UpdateSupportRequestInput) (*domain.SupportRequest, error) {
	request, err := s.Get(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if input.Priority != nil {
		if !domain.ValidSupportPriority(*input.Priority) {
			return nil, domain.ErrInvalidStatus
		}
		request.Priority = *input.Priority
	}
	if input.AssigneeID != nil {
		request.AssigneeID = input.AssigneeID
	}
	if input.Status != nil {
		if !domain.ValidSupportRequestStatus(*input.Status) {
			return nil, domain.ErrInvalidStatus
		}
		// ResolvedAt is stamped once, on the first transition into
		// resolved, and never cleared afterwards.
		if *input.Status == domain.RequestResolved && request.ResolvedAt == nil {
			now := s.now()
			request.ResolvedAt = &now
		}
		request.Status = *input.Status
	}

	if err := s.supportRepo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update support request: %w", err)
	}
	return request, nil
}
