package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/repository"
)

type InvitationService interface {
	Invite(ctx context.Context, roomID, inviterID, inviteeID uuid.UUID, message string) (*domain.RoomInvitation, error)
	Respond(ctx context.Context, invitationID, userID uuid.UUID, accept bool) (*domain.RoomInvitation, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.RoomInvitation, error)
}

type invitationService struct {
	invitationRepo repository.InvitationRepository
	roomRepo       repository.RoomRepository
	activityRepo   repository.ActivityRepository
	logger         *zap.Logger
	now            func() time.Time
}

func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	roomRepo repository.RoomRepository,
	activityRepo repository.ActivityRepository,
	logger *zap.Logger,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		roomRepo:       roomRepo,
		activityRepo:   activityRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *invitationService) Invite(ctx context.Context, roomID, inviterID, inviteeID uuid.UUID, message string) (*domain.RoomInvitation, error) {
	if _, err := s.roomRepo.FindByID(ctx, roomID); err != nil {
		return nil, err
	}
	member, err := s.roomRepo.IsParticipant(ctx, roomID, inviterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotMember
	}

	now := s.now()
	if _, err := s.invitationRepo.FindLivePending(ctx, roomID, inviteeID, now); err == nil {
		return nil, domain.ErrDuplicateInvitation
	} else if !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, err
	}

	invitation := &domain.RoomInvitation{
		RoomID:    roomID,
		InviterID: inviterID,
		InviteeID: inviteeID,
		Message:   message,
		Status:    domain.InvitationPending,
		ExpiresAt: now.Add(domain.InvitationTTL),
	}

	// The (room, invitee) pair is unique, so a stale row from an earlier
	// declined or expired invitation is refreshed instead of duplicated.
	prior, err := s.invitationRepo.FindByPair(ctx, roomID, inviteeID)
	switch {
	case err == nil:
		prior.InviterID = inviterID
		prior.Message = message
		prior.Status = domain.InvitationPending
		prior.ExpiresAt = invitation.ExpiresAt
		prior.RespondedAt = nil
		if err := s.invitationRepo.Update(ctx, prior); err != nil {
			return nil, fmt.Errorf("failed to refresh invitation: %w", err)
		}
		invitation = prior
	case errors.Is(err, domain.ErrInvitationNotFound):
		if err := s.invitationRepo.Create(ctx, invitation); err != nil {
			return nil, fmt.Errorf("failed to create invitation: %w", err)
		}
	default:
		return nil, err
	}

	middleware.RecordInvitationSent()
	activity := &domain.ChatActivity{
		UserID:       inviterID,
		RoomID:       roomID,
		ActivityKind: domain.ActivityInvitationSent,
		InvitationID: &invitation.ID,
	}
	if err := s.activityRepo.Append(ctx, activity); err != nil {
		s.logger.Warn("failed to record invitation activity", zap.Error(err))
	}
	return invitation, nil
}

func (s *invitationService) Respond(ctx context.Context, invitationID, userID uuid.UUID, accept bool) (*domain.RoomInvitation, error) {
	invitation, err := s.invitationRepo.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	// Only the invitee can see or answer the invitation.
	if invitation.InviteeID != userID {
		return nil, domain.ErrInvitationNotFound
	}

	now := s.now()
	// Expiry wins over the responded check: the stored status may lag
	// the clock, or the background sweep may already have flipped the
	// row to expired, and both read the same to the invitee.
	if invitation.Status == domain.InvitationExpired || invitation.IsExpired(now) {
		return nil, domain.ErrInvitationExpired
	}
	if invitation.Status != domain.InvitationPending {
		return nil, domain.ErrInvitationResponded
	}

	if accept {
		if err := s.roomRepo.AddParticipant(ctx, invitation.RoomID, userID); err != nil &&
			!errors.Is(err, domain.ErrAlreadyMember) {
			return nil, err
		}
		invitation.Status = domain.InvitationAccepted
	} else {
		invitation.Status = domain.InvitationDeclined
	}
	invitation.RespondedAt = &now
	if err := s.invitationRepo.Update(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	if accept {
		activity := &domain.ChatActivity{
			UserID:       userID,
			RoomID:       invitation.RoomID,
			ActivityKind: domain.ActivityInvitationAccepted,
			InvitationID: &invitation.ID,
		}
		if err := s.activityRepo.Append(ctx, activity); err != nil {
			s.logger.Warn("failed to record acceptance activity", zap.Error(err))
		}
	}
	return invitation, nil
}

func (s *invitationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.RoomInvitation, error) {
	return s.invitationRepo.ListByInvitee(ctx, userID)
}
