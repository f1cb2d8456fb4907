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

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	TouchActivity(ctx context.Context, roomID uuid.UUID) error

	AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error
	RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) error
	Participants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error)
	IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	MemberCount(ctx context.Context, roomID uuid.UUID) (int64, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("Participants", "left_at IS NULL").
		First(&room, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Joins("JOIN room_participants ON room_participants.room_id = rooms.id").
		Where("room_participants.user_id = ? AND room_participants.left_at IS NULL", userID).
		Where("rooms.is_active = ?", true).
		Preload("Participants", "left_at IS NULL").
		Order("rooms.last_activity DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	room.LastActivity = time.Now().UTC()
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Room owns its messages, participants, invitations and support
	// requests; remove them in one transaction.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id IN (?)",
			tx.Model(&domain.Message{}).Select("id").Where("room_id = ?", id),
		).Delete(&domain.MessageReaction{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&domain.Message{}, &domain.RoomParticipant{},
			&domain.RoomInvitation{}, &domain.SupportRequest{},
		} {
			if err := tx.Where("room_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&domain.Room{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRoomNotFound
		}
		return nil
	})
}

func (r *roomRepository) TouchActivity(ctx context.Context, roomID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", roomID).
		Update("last_activity", time.Now().UTC()).Error
}

// AddParticipant adds userID to the room's participant set. The room row
// is locked for the capacity check so concurrent joins cannot exceed
// max_participants.
func (r *roomRepository) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomQuery := tx
		// sqlite serializes writers already and rejects FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			roomQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var room domain.Room
		err := roomQuery.First(&room, "id = ?", roomID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRoomNotFound
		}
		if err != nil {
			return err
		}

		var existing domain.RoomParticipant
		err = tx.Where("room_id = ? AND user_id = ?", roomID, userID).
			First(&existing).Error
		switch {
		case err == nil && existing.LeftAt == nil:
			return domain.ErrAlreadyMember
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var members int64
		if err := tx.Model(&domain.RoomParticipant{}).
			Where("room_id = ? AND left_at IS NULL", roomID).
			Count(&members).Error; err != nil {
			return err
		}
		if members >= int64(room.MaxParticipants) {
			return domain.ErrRoomFull
		}

		now := time.Now().UTC()
		if err == nil {
			// Rejoin: clear left_at, keep the original joined_at.
			existing.LeftAt = nil
			existing.Status = domain.ParticipantActive
			existing.LastSeen = now
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		} else {
			participant := &domain.RoomParticipant{
				RoomID:               roomID,
				UserID:               userID,
				Status:               domain.ParticipantActive,
				JoinedAt:             now,
				LastSeen:             now,
				NotificationsEnabled: true,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).Create(participant).Error; err != nil {
				return err
			}
		}

		return tx.Model(&domain.Room{}).
			Where("id = ?", roomID).
			Update("last_activity", now).Error
	})
}

func (r *roomRepository) RemoveParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&domain.RoomParticipant{}).
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		Updates(map[string]interface{}{
			"left_at":   now,
			"status":    domain.ParticipantOffline,
			"last_seen": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotMember
	}
	return r.TouchActivity(ctx, roomID)
}

func (r *roomRepository) Participants(ctx context.Context, roomID uuid.UUID) ([]domain.RoomParticipant, error) {
	var participants []domain.RoomParticipant
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Order("joined_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *roomRepository) IsParticipant(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RoomParticipant{}).
		Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *roomRepository) MemberCount(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RoomParticipant{}).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Count(&count).Error
	return count, err
}
