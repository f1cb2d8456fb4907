package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus defines the stored lifecycle state of an invitation
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
	InvitationExpired  InvitationStatus = "expired"
)

// InvitationTTL is the fixed horizon after which a pending invitation is
// treated as expired.
const InvitationTTL = 7 * 24 * time.Hour

// RoomInvitation invites a user into a room. (room_id, invitee_id) is
// unique. Expiry is a function of the clock, not of the stored status: a
// reader can observe status=pending past ExpiresAt and must treat the row
// as expired without mutating it.
type RoomInvitation struct {
	BaseModel
	RoomID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_unique,priority:1" json:"room_id"`
	InviterID   uuid.UUID        `gorm:"type:uuid;not null" json:"inviter_id"`
	InviteeID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_invitation_unique,priority:2;index:idx_invitations_invitee" json:"invitee_id"`
	Message     string           `gorm:"type:text" json:"message,omitempty"`
	Status      InvitationStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`
	ExpiresAt   time.Time        `gorm:"not null" json:"expires_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
}

func (RoomInvitation) TableName() string {
	return "room_invitations"
}

// IsExpired reports whether the invitation is past its horizon at now.
func (i *RoomInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
