package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"peerchat-service/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]domain.Message, error)
	Update(ctx context.Context, message *domain.Message) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	ToggleReaction(ctx context.Context, messageID, userID uuid.UUID, kind domain.ReactionKind) (added bool, err error)
	ReactionCounts(ctx context.Context, messageID uuid.UUID) (map[domain.ReactionKind]int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	var message domain.Message
	err := r.db.WithContext(ctx).
		Preload("Reactions").
		First(&message, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListByRoom returns messages in (created_at, id) order, the authoritative
// delivery order. Soft-deleted rows are excluded.
func (r *messageRepository) ListByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND is_deleted = ?", roomID, false).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Preload("Reactions").
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) Update(ctx context.Context, message *domain.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

// SoftDelete hides the message from reads. The row stays so replies and
// reactions keep a valid target.
func (r *messageRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// ToggleReaction flips the (message, user, kind) reaction: removes it when
// present, creates it otherwise. The unique index on the triple makes the
// flip race-safe.
func (r *messageRepository) ToggleReaction(ctx context.Context, messageID, userID uuid.UUID, kind domain.ReactionKind) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(
			"message_id = ? AND user_id = ? AND reaction_kind = ?",
			messageID, userID, kind,
		).Delete(&domain.MessageReaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		reaction := &domain.MessageReaction{
			MessageID:    messageID,
			UserID:       userID,
			ReactionKind: kind,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "message_id"}, {Name: "user_id"}, {Name: "reaction_kind"},
			},
			DoNothing: true,
		}).Create(reaction).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}

func (r *messageRepository) ReactionCounts(ctx context.Context, messageID uuid.UUID) (map[domain.ReactionKind]int64, error) {
	type row struct {
		ReactionKind domain.ReactionKind
		Count        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&domain.MessageReaction{}).
		Select("reaction_kind, count(*) as count").
		Where("message_id = ?", messageID).
		Group("reaction_kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ReactionKind]int64, len(rows))
	for _, r := range rows {
		counts[r.ReactionKind] = r.Count
	}
	return counts, nil
}
