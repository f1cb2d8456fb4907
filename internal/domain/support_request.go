package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SupportRequestType defines what kind of help is being asked for
type SupportRequestType string

const (
	SupportEmotional     SupportRequestType = "emotional_support"
	SupportCrisis        SupportRequestType = "crisis_intervention"
	SupportPeerConnection SupportRequestType = "peer_connection"
	SupportResourceShare SupportRequestType = "resource_sharing"
	SupportGeneralHelp   SupportRequestType = "general_help"
)

// ValidSupportRequestType reports whether t is a defined request type.
func ValidSupportRequestType(t SupportRequestType) bool {
	switch t {
	case SupportEmotional, SupportCrisis, SupportPeerConnection, SupportResourceShare, SupportGeneralHelp:
		return true
	}
	return false
}

// SupportPriority defines the urgency of a support request
type SupportPriority string

const (
	PriorityLow    SupportPriority = "low"
	PriorityMedium SupportPriority = "medium"
	PriorityHigh   SupportPriority = "high"
	PriorityUrgent SupportPriority = "urgent"
)

// ValidSupportPriority reports whether p is a defined priority.
func ValidSupportPriority(p SupportPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SupportRequestStatus defines the request lifecycle
type SupportRequestStatus string

const (
	RequestOpen       SupportRequestStatus = "open"
	RequestInProgress SupportRequestStatus = "in_progress"
	RequestResolved   SupportRequestStatus = "resolved"
	RequestClosed     SupportRequestStatus = "closed"
)

// ValidSupportRequestStatus reports whether s is a defined status.
func ValidSupportRequestStatus(s SupportRequestStatus) bool {
	switch s {
	case RequestOpen, RequestInProgress, RequestResolved, RequestClosed:
		return true
	}
	return false
}

// SupportRequest is a structured ask for help raised inside a room.
// ResolvedAt is set exactly once, on the first transition into resolved.
type SupportRequest struct {
	BaseModel
	RoomID      uuid.UUID            `gorm:"type:uuid;not null;index:idx_support_requests_room" json:"room_id"`
	RequesterID uuid.UUID            `gorm:"type:uuid;not null" json:"requester_id"`
	RequestType SupportRequestType   `gorm:"type:varchar(20);not null" json:"request_type"`
	Priority    SupportPriority      `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Title       string               `gorm:"type:varchar(200);not null" json:"title"`
	Description string               `gorm:"type:text" json:"description"`
	Tags        datatypes.JSON       `json:"tags,omitempty"`
	Status      SupportRequestStatus `gorm:"type:varchar(20);not null;default:'open';index:idx_support_requests_status" json:"status"`
	AssigneeID  *uuid.UUID           `gorm:"type:uuid" json:"assignee_id,omitempty"`
	ResolvedAt  *time.Time           `json:"resolved_at,omitempty"`
}

func (SupportRequest) TableName() string {
	return "support_requests"
}
