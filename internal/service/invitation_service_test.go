package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/domain"
)

func newInvitationService(
	invitationRepo *MockInvitationRepository,
	roomRepo *MockRoomRepository,
	at time.Time,
) InvitationService {
	svc := NewInvitationService(invitationRepo, roomRepo, &MockActivityRepository{}, zap.NewNop()).(*invitationService)
	svc.now = func() time.Time { return at }
	return svc
}

func TestInvitationService_Invite(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var created *domain.RoomInvitation
	invitationRepo := &MockInvitationRepository{
		CreateFunc: func(ctx context.Context, invitation *domain.RoomInvitation) error {
			invitation.ID = uuid.New()
			created = invitation
			return nil
		},
	}
	service := newInvitationService(invitationRepo, &MockRoomRepository{}, now)

	roomID := uuid.New()
	inviter := uuid.New()
	invitee := uuid.New()

	invitation, err := service.Invite(context.Background(), roomID, inviter, invitee, "join us")
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if created == nil {
		t.Fatal("invitation was not created")
	}
	if invitation.Status != domain.InvitationPending {
		t.Errorf("expected pending status, got %s", invitation.Status)
	}
	if !invitation.ExpiresAt.Equal(now.Add(domain.InvitationTTL)) {
		t.Errorf("unexpected expiry %v", invitation.ExpiresAt)
	}
}

func TestInvitationService_Invite_RequiresMembership(t *testing.T) {
	roomRepo := &MockRoomRepository{
		IsParticipantFunc: func(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	service := newInvitationService(&MockInvitationRepository{}, roomRepo, time.Now())

	_, err := service.Invite(context.Background(), uuid.New(), uuid.New(), uuid.New(), "")
	if !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestInvitationService_Invite_DuplicatePending(t *testing.T) {
	now := time.Now().UTC()
	invitationRepo := &MockInvitationRepository{
		FindLivePendingFunc: func(ctx context.Context, roomID, inviteeID uuid.UUID, at time.Time) (*domain.RoomInvitation, error) {
			return &domain.RoomInvitation{Status: domain.InvitationPending}, nil
		},
	}
	service := newInvitationService(invitationRepo, &MockRoomRepository{}, now)

	_, err := service.Invite(context.Background(), uuid.New(), uuid.New(), uuid.New(), "")
	if !errors.Is(err, domain.ErrDuplicateInvitation) {
		t.Errorf("expected ErrDuplicateInvitation, got %v", err)
	}
}

func TestInvitationService_Invite_RefreshesDeclinedRow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	responded := now.Add(-48 * time.Hour)
	prior := &domain.RoomInvitation{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Status:      domain.InvitationDeclined,
		ExpiresAt:   now.Add(-24 * time.Hour),
		RespondedAt: &responded,
	}

	creates := 0
	var updated *domain.RoomInvitation
	invitationRepo := &MockInvitationRepository{
		FindByPairFunc: func(ctx context.Context, roomID, inviteeID uuid.UUID) (*domain.RoomInvitation, error) {
			return prior, nil
		},
		CreateFunc: func(ctx context.Context, invitation *domain.RoomInvitation) error {
			creates++
			return nil
		},
		UpdateFunc: func(ctx context.Context, invitation *domain.RoomInvitation) error {
			updated = invitation
			return nil
		},
	}
	service := newInvitationService(invitationRepo, &MockRoomRepository{}, now)

	inviter := uuid.New()
	invitation, err := service.Invite(context.Background(), uuid.New(), inviter, uuid.New(), "try again")
	if err != nil {
		t.Fatalf("re-invite failed: %v", err)
	}

	if creates != 0 {
		t.Errorf("stale row should be refreshed, not recreated (%d creates)", creates)
	}
	if updated == nil {
		t.Fatal("stale row was not updated")
	}
	if invitation.ID != prior.ID {
		t.Errorf("expected existing row %s, got %s", prior.ID, invitation.ID)
	}
	if invitation.Status != domain.InvitationPending {
		t.Errorf("expected pending status, got %s", invitation.Status)
	}
	if invitation.RespondedAt != nil {
		t.Error("responded_at should be cleared on refresh")
	}
	if !invitation.ExpiresAt.Equal(now.Add(domain.InvitationTTL)) {
		t.Errorf("expiry not refreshed: %v", invitation.ExpiresAt)
	}
	if invitation.InviterID != inviter {
		t.Errorf("inviter not refreshed: %s", invitation.InviterID)
	}
}

func TestInvitationService_Respond_Accept(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	roomID := uuid.New()
	invitee := uuid.New()
	invitation := &domain.RoomInvitation{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		RoomID:    roomID,
		InviteeID: invitee,
		Status:    domain.InvitationPending,
		ExpiresAt: now.Add(time.Hour),
	}

	invitationRepo := &MockInvitationRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error) {
			return invitation, nil
		},
	}
	joined := false
	roomRepo := &MockRoomRepository{
		AddParticipantFunc: func(ctx context.Context, rID, uID uuid.UUID) error {
			if rID != roomID || uID != invitee {
				t.Errorf("joined wrong room/user: %s/%s", rID, uID)
			}
			joined = true
			return nil
		},
	}
	service := newInvitationService(invitationRepo, roomRepo, now)

	result, err := service.Respond(context.Background(), invitation.ID, invitee, true)
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if !joined {
		t.Error("acceptance should join the room")
	}
	if result.Status != domain.InvitationAccepted {
		t.Errorf("expected accepted, got %s", result.Status)
	}
	if result.RespondedAt == nil || !result.RespondedAt.Equal(now) {
		t.Errorf("responded_at not stamped: %v", result.RespondedAt)
	}
}

func TestInvitationService_Respond_Decline(t *testing.T) {
	now := time.Now().UTC()
	invitee := uuid.New()
	invitation := &domain.RoomInvitation{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		RoomID:    uuid.New(),
		InviteeID: invitee,
		Status:    domain.InvitationPending,
		ExpiresAt: now.Add(time.Hour),
	}
	invitationRepo := &MockInvitationRepository{
		FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error) {
			return invitation, nil
		},
	}
	roomRepo := &MockRoomRepository{
		AddParticipantFunc: func(ctx context.Context, rID, uID uuid.UUID) error {
			t.Error("decline must not join the room")
			return nil
		},
	}
	service := newInvitationService(invitationRepo, roomRepo, now)

	result, err := service.Respond(context.Background(), invitation.ID, invitee, false)
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if result.Status != domain.InvitationDeclined {
		t.Errorf("expected declined, got %s", result.Status)
	}
}

func TestInvitationService_Respond_Guards(t *testing.T) {
	now := time.Now().UTC()
	invitee := uuid.New()

	cases := []struct {
		name       string
		invitation *domain.RoomInvitation
		responder  uuid.UUID
		wantErr    error
	}{
		{
			name: "wrong responder",
			invitation: &domain.RoomInvitation{
				InviteeID: invitee,
				Status:    domain.InvitationPending,
				ExpiresAt: now.Add(time.Hour),
			},
			responder: uuid.New(),
			wantErr:   domain.ErrInvitationNotFound,
		},
		{
			name: "already responded",
			invitation: &domain.RoomInvitation{
				InviteeID: invitee,
				Status:    domain.InvitationAccepted,
				ExpiresAt: now.Add(time.Hour),
			},
			responder: invitee,
			wantErr:   domain.ErrInvitationResponded,
		},
		{
			name: "expired by the clock while still pending",
			invitation: &domain.RoomInvitation{
				InviteeID: invitee,
				Status:    domain.InvitationPending,
				ExpiresAt: now.Add(-time.Minute),
			},
			responder: invitee,
			wantErr:   domain.ErrInvitationExpired,
		},
		{
			// The sweep already flipped the stale row; the invitee must
			// still see expiry, not a phantom prior response.
			name: "already swept to expired",
			invitation: &domain.RoomInvitation{
				InviteeID: invitee,
				Status:    domain.InvitationExpired,
				ExpiresAt: now.Add(-time.Minute),
			},
			responder: invitee,
			wantErr:   domain.ErrInvitationExpired,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			invitationRepo := &MockInvitationRepository{
				FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error) {
					return tc.invitation, nil
				},
			}
			service := newInvitationService(invitationRepo, &MockRoomRepository{}, now)

			_, err := service.Respond(context.Background(), uuid.New(), tc.responder, true)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
