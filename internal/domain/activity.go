package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityKind defines the audited domain events
type ActivityKind string

const (
	ActivityMessageSent        ActivityKind = "message_sent"
	ActivityRoomJoined         ActivityKind = "room_joined"
	ActivityRoomLeft           ActivityKind = "room_left"
	ActivityInvitationSent     ActivityKind = "invitation_sent"
	ActivityInvitationAccepted ActivityKind = "invitation_accepted"
	ActivityReactionAdded      ActivityKind = "reaction_added"
)

// ChatActivity is an append-only audit record. It is never updated or
// deleted, so audit history survives message soft-deletes.
type ChatActivity struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_activities_user_created,priority:1" json:"user_id"`
	RoomID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_activities_room" json:"room_id"`
	ActivityKind ActivityKind   `gorm:"type:varchar(20);not null" json:"activity_kind"`
	MessageID    *uuid.UUID     `gorm:"type:uuid" json:"message_id,omitempty"`
	InvitationID *uuid.UUID     `gorm:"type:uuid" json:"invitation_id,omitempty"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index:idx_activities_user_created,priority:2" json:"created_at"`
}

func (ChatActivity) TableName() string {
	return "chat_activities"
}

// BeforeCreate assigns an ID when the caller did not set one.
func (a *ChatActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
