package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peerchat-service/internal/domain"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) *PresenceRepository {
	return &PresenceRepository{db: db}
}

// SetStatus records a (user, room) presence transition as a timestamped
// overwrite. The insert-or-update on the participant unique index is the
// atomic get-or-create: concurrent first joins cannot produce duplicate
// rows, and out-of-order updates simply overwrite each other.
func (r *PresenceRepository) SetStatus(ctx context.Context, roomID, userID uuid.UUID, status domain.ParticipantStatus) error {
	now := time.Now().UTC()
	participant := &domain.RoomParticipant{
		RoomID:               roomID,
		UserID:               userID,
		Status:               status,
		JoinedAt:             now,
		LastSeen:             now,
		NotificationsEnabled: true,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":    status,
			"last_seen": now,
		}),
	}).Create(participant).Error
}

func (r *PresenceRepository) GetStatus(ctx context.Context, roomID, userID uuid.UUID) (*domain.RoomParticipant, error) {
	var participant domain.RoomParticipant
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotMember
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *PresenceRepository) RoomPresence(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error) {
	var participants []domain.RoomParticipant
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Order("joined_at ASC").
		Find(&participants).Error
	return participants, err
}
