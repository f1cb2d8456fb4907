package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"peerchat-service/internal/domain"
)

type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.RoomInvitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error)
	FindLivePending(ctx context.Context, roomID, inviteeID uuid.UUID, now time.Time) (*domain.RoomInvitation, error)
	FindByPair(ctx context.Context, roomID, inviteeID uuid.UUID) (*domain.RoomInvitation, error)
	ListByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]domain.RoomInvitation, error)
	Update(ctx context.Context, invitation *domain.RoomInvitation) error
	MarkStaleExpired(ctx context.Context, now time.Time) (int64, error)
}

type invitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *domain.RoomInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *invitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error) {
	var invitation domain.RoomInvitation
	err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindLivePending returns the pending, not-yet-expired invitation for the
// (room, invitee) pair, or ErrInvitationNotFound.
func (r *invitationRepository) FindLivePending(ctx context.Context, roomID, inviteeID uuid.UUID, now time.Time) (*domain.RoomInvitation, error) {
	var invitation domain.RoomInvitation
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND invitee_id = ? AND status = ? AND expires_at > ?",
			roomID, inviteeID, domain.InvitationPending, now).
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByPair returns the invitation row for the unique (room, invitee)
// pair regardless of status.
func (r *invitationRepository) FindByPair(ctx context.Context, roomID, inviteeID uuid.UUID) (*domain.RoomInvitation, error) {
	var invitation domain.RoomInvitation
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND invitee_id = ?", roomID, inviteeID).
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) ListByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]domain.RoomInvitation, error) {
	var invitations []domain.RoomInvitation
	err := r.db.WithContext(ctx).
		Where("invitee_id = ?", inviteeID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *invitationRepository) Update(ctx context.Context, invitation *domain.RoomInvitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

// MarkStaleExpired flips pending rows past their horizon to expired. Reads
// never depend on this; it keeps reporting queries honest.
func (r *invitationRepository) MarkStaleExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.RoomInvitation{}).
		Where("status = ? AND expires_at <= ?", domain.InvitationPending, now).
		Update("status", domain.InvitationExpired)
	return res.RowsAffected, res.Error
}
