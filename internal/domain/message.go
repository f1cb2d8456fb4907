package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageKind defines the kind of message
type MessageKind string

const (
	MessageKindText           MessageKind = "text"
	MessageKindImage          MessageKind = "image"
	MessageKindFile           MessageKind = "file"
	MessageKindSystem         MessageKind = "system"
	MessageKindSupportRequest MessageKind = "support_request"
)

// ValidMessageKind reports whether k is one of the defined message kinds.
func ValidMessageKind(k MessageKind) bool {
	switch k {
	case MessageKindText, MessageKindImage, MessageKindFile, MessageKindSystem, MessageKindSupportRequest:
		return true
	}
	return false
}

// Message body length bounds.
const (
	MinMessageLength = 1
	MaxMessageLength = 2000
)

// Message is a durable chat message owned by a room. Rows are never hard
// deleted; IsDeleted hides the message from default listings while the
// content and the audit trail survive.
type Message struct {
	BaseModel
	RoomID      uuid.UUID   `gorm:"type:uuid;not null;index:idx_messages_room_created,priority:1" json:"room_id"`
	SenderID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_messages_sender" json:"sender_id"`
	MessageKind MessageKind `gorm:"type:varchar(20);not null;default:'text'" json:"message_kind"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Attachment  *string     `gorm:"type:text" json:"attachment,omitempty"`
	ReplyToID   *uuid.UUID  `gorm:"type:uuid" json:"reply_to_id,omitempty"`

	IsEdited  bool       `gorm:"default:false" json:"is_edited"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	IsDeleted bool       `gorm:"default:false;index:idx_messages_deleted" json:"is_deleted"`

	IsFlagged     bool   `gorm:"default:false" json:"is_flagged"`
	FlaggedReason string `gorm:"type:varchar(100)" json:"flagged_reason,omitempty"`

	Reactions []MessageReaction `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"reactions,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// ReactionKind defines the kind of reaction
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionLove    ReactionKind = "love"
	ReactionHug     ReactionKind = "hug"
	ReactionSupport ReactionKind = "support"
	ReactionLaugh   ReactionKind = "laugh"
	ReactionSad     ReactionKind = "sad"
)

// ValidReactionKind reports whether k is one of the six defined reaction kinds.
func ValidReactionKind(k ReactionKind) bool {
	switch k {
	case ReactionLike, ReactionLove, ReactionHug, ReactionSupport, ReactionLaugh, ReactionSad:
		return true
	}
	return false
}

// MessageReaction is unique per (message, user, kind): a user may hold
// several distinct kinds on one message but never a duplicate of one kind.
type MessageReaction struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_unique,priority:1" json:"message_id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_unique,priority:2" json:"user_id"`
	ReactionKind ReactionKind `gorm:"type:varchar(10);not null;uniqueIndex:idx_reaction_unique,priority:3" json:"reaction_kind"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}

// BeforeCreate assigns an ID when the caller did not set one.
func (r *MessageReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
