package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParticipantStatus defines a participant's presence within one room
type ParticipantStatus string

const (
	ParticipantActive  ParticipantStatus = "active"
	ParticipantAway    ParticipantStatus = "away"
	ParticipantBusy    ParticipantStatus = "busy"
	ParticipantOffline ParticipantStatus = "offline"
)

// ValidParticipantStatus reports whether s is one of the defined statuses.
func ValidParticipantStatus(s ParticipantStatus) bool {
	switch s {
	case ParticipantActive, ParticipantAway, ParticipantBusy, ParticipantOffline:
		return true
	}
	return false
}

// RoomParticipant tracks one user's membership and presence in one room.
// (room_id, user_id) is unique; LeftAt is set when the user leaves the
// participant set. Status updates are last-write-wins overwrites keyed by
// the pair, never deltas.
type RoomParticipant struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_participant_unique,priority:1" json:"room_id"`
	UserID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_participant_unique,priority:2;index:idx_participants_user" json:"user_id"`
	Status   ParticipantStatus `gorm:"type:varchar(10);not null;default:'offline'" json:"status"`
	JoinedAt time.Time         `gorm:"autoCreateTime" json:"joined_at"`
	LastSeen time.Time         `gorm:"autoCreateTime" json:"last_seen"`
	LeftAt   *time.Time        `json:"left_at,omitempty"`

	NotificationsEnabled bool `gorm:"default:true" json:"notifications_enabled"`
	IsMuted              bool `gorm:"default:false" json:"is_muted"`
}

func (RoomParticipant) TableName() string {
	return "room_participants"
}

// BeforeCreate assigns an ID when the caller did not set one.
func (p *RoomParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
