package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"peerchat-service/internal/domain"
)

// UserStats is the derived, never-persisted per-user summary.
type UserStats struct {
	TotalRooms          int64   `json:"total_rooms"`
	ActiveRooms         int64   `json:"active_rooms"`
	TotalMessages       int64   `json:"total_messages"`
	MessagesToday       int64   `json:"messages_today"`
	SupportRequests     int64   `json:"support_requests"`
	OpenSupportRequests int64   `json:"open_support_requests"`
	AvgMessagesPerRoom  float64 `json:"avg_messages_per_room"`
	MostActiveRoom      string  `json:"most_active_room"`
	ParticipationRate   float64 `json:"participation_rate"`
}

// RoomStats is the derived per-room summary.
type RoomStats struct {
	ParticipantCount     int64   `json:"participant_count"`
	MessageCount         int64   `json:"message_count"`
	ReactionCount        int64   `json:"reaction_count"`
	OpenSupportRequests  int64   `json:"open_support_requests"`
	AvgResolutionSeconds float64 `json:"avg_resolution_seconds"`
}

type StatsRepository interface {
	UserStats(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error)
	RoomStats(ctx context.Context, roomID uuid.UUID) (*RoomStats, error)
}

type statsRepository struct {
	db          *gorm.DB
	supportRepo SupportRequestRepository
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db, supportRepo: NewSupportRequestRepository(db)}
}

func (r *statsRepository) memberRooms(userID uuid.UUID) *gorm.DB {
	return r.db.Model(&domain.RoomParticipant{}).
		Select("room_id").
		Where("user_id = ? AND left_at IS NULL", userID)
}

func (r *statsRepository) UserStats(ctx context.Context, userID uuid.UUID, now time.Time) (*UserStats, error) {
	stats := &UserStats{MostActiveRoom: "None"}
	db := r.db.WithContext(ctx)
	rooms := r.memberRooms(userID)

	if err := db.Model(&domain.Room{}).
		Where("id IN (?)", rooms).
		Count(&stats.TotalRooms).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Room{}).
		Where("id IN (?) AND is_active = ?", rooms, true).
		Count(&stats.ActiveRooms).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&domain.Message{}).
		Where("room_id IN (?)", rooms).
		Count(&stats.TotalMessages).Error; err != nil {
		return nil, err
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&domain.Message{}).
		Where("room_id IN (?) AND created_at >= ?", rooms, dayStart).
		Count(&stats.MessagesToday).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&domain.SupportRequest{}).
		Where("room_id IN (?)", rooms).
		Count(&stats.SupportRequests).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.SupportRequest{}).
		Where("room_id IN (?) AND status IN ?", rooms,
			[]domain.SupportRequestStatus{domain.RequestOpen, domain.RequestInProgress}).
		Count(&stats.OpenSupportRequests).Error; err != nil {
		return nil, err
	}

	if stats.TotalRooms > 0 {
		stats.AvgMessagesPerRoom = float64(stats.TotalMessages) / float64(stats.TotalRooms)
	}

	type activeRow struct {
		Name  string
		Count int64
	}
	var active activeRow
	err := db.Model(&domain.Room{}).
		Select("rooms.name as name, count(messages.id) as count").
		Joins("LEFT JOIN messages ON messages.room_id = rooms.id").
		Where("rooms.id IN (?)", rooms).
		Group("rooms.id, rooms.name").
		Order("count DESC").
		Limit(1).
		Scan(&active).Error
	if err != nil {
		return nil, err
	}
	if active.Name != "" {
		stats.MostActiveRoom = active.Name
	}

	var roomsWithMessages int64
	if err := db.Model(&domain.Message{}).
		Where("room_id IN (?)", rooms).
		Distinct("room_id").
		Count(&roomsWithMessages).Error; err != nil {
		return nil, err
	}
	denom := stats.TotalRooms
	if denom == 0 {
		denom = 1
	}
	stats.ParticipationRate = float64(roomsWithMessages) / float64(denom) * 100

	return stats, nil
}

func (r *statsRepository) RoomStats(ctx context.Context, roomID uuid.UUID) (*RoomStats, error) {
	stats := &RoomStats{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&domain.RoomParticipant{}).
		Where("room_id = ? AND left_at IS NULL", roomID).
		Count(&stats.ParticipantCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Message{}).
		Where("room_id = ? AND is_deleted = ?", roomID, false).
		Count(&stats.MessageCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.MessageReaction{}).
		Where("message_id IN (?)", db.Model(&domain.Message{}).Select("id").Where("room_id = ?", roomID)).
		Count(&stats.ReactionCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.SupportRequest{}).
		Where("room_id = ? AND status IN ?", roomID,
			[]domain.SupportRequestStatus{domain.RequestOpen, domain.RequestInProgress}).
		Count(&stats.OpenSupportRequests).Error; err != nil {
		return nil, err
	}

	avg, err := r.supportRepo.AvgResolutionSeconds(ctx, roomID)
	if err != nil {
		return nil, err
	}
	stats.AvgResolutionSeconds = avg

	return stats, nil
}
