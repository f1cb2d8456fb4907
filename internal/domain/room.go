package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoomKind defines the kind of support room
type RoomKind string

const (
	RoomKindPeerSupport  RoomKind = "peer_support"
	RoomKindMentorChat   RoomKind = "mentor_chat"
	RoomKindGroupSupport RoomKind = "group_support"
	RoomKindCrisisSupport RoomKind = "crisis_support"
)

// ValidRoomKind reports whether k is one of the defined room kinds.
func ValidRoomKind(k RoomKind) bool {
	switch k {
	case RoomKindPeerSupport, RoomKindMentorChat, RoomKindGroupSupport, RoomKindCrisisSupport:
		return true
	}
	return false
}

// Room is a chat room bounding participants and messages.
type Room struct {
	BaseModel
	Name            string     `gorm:"type:varchar(100)" json:"name,omitempty"`
	RoomKind        RoomKind   `gorm:"type:varchar(20);not null;default:'peer_support'" json:"room_kind"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null;index:idx_rooms_created_by" json:"created_by"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	IsPrivate       bool       `gorm:"default:true" json:"is_private"`
	MaxParticipants int        `gorm:"not null;default:2" json:"max_participants"`
	IsModerated     bool       `gorm:"default:false" json:"is_moderated"`
	ModeratorID     *uuid.UUID `gorm:"type:uuid" json:"moderator_id,omitempty"`
	LastActivity    time.Time  `gorm:"autoCreateTime;index:idx_rooms_last_activity" json:"last_activity"`

	Participants    []RoomParticipant `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Messages        []Message         `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	Invitations     []RoomInvitation  `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"invitations,omitempty"`
	SupportRequests []SupportRequest  `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"support_requests,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}

// CanModify reports whether userID may update room metadata.
func (r *Room) CanModify(userID uuid.UUID) bool {
	if r.CreatedBy == userID {
		return true
	}
	return r.ModeratorID != nil && *r.ModeratorID == userID
}
