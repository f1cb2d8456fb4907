package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"peerchat-service/internal/domain"
)

// ActivityRepository is append-only: there is no update or delete path.
type ActivityRepository interface {
	Append(ctx context.Context, activity *domain.ChatActivity) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatActivity, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]domain.ChatActivity, error)
	ListWindow(ctx context.Context, from, to time.Time) ([]domain.ChatActivity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, activity *domain.ChatActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatActivity, error) {
	var activities []domain.ChatActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) ListByRoom(ctx context.Context, roomID uuid.UUID, limit int) ([]domain.ChatActivity, error) {
	var activities []domain.ChatActivity
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) ListWindow(ctx context.Context, from, to time.Time) ([]domain.ChatActivity, error) {
	var activities []domain.ChatActivity
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&activities).Error
	return activities, err
}
