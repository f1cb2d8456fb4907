package domain

import "errors"

// Sentinel errors surfaced by the service layer. Handlers map these onto
// HTTP statuses; the websocket session maps them onto error frames.
var (
	// Validation
	ErrInvalidRoomKind     = errors.New("invalid room kind")
	ErrInvalidMessageKind  = errors.New("invalid message kind")
	ErrInvalidReactionKind = errors.New("invalid reaction kind")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrEmptyMessage        = errors.New("message cannot be empty")
	ErrMessageTooLong      = errors.New("message cannot exceed 2000 characters")
	ErrInvalidCapacity     = errors.New("max_participants must be at least 1")
	ErrNameTooLong         = errors.New("room name cannot exceed 100 characters")
	ErrReplyOtherRoom      = errors.New("reply target belongs to a different room")

	// Not found
	ErrRoomNotFound       = errors.New("room not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrRequestNotFound    = errors.New("support request not found")

	// Conflict
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyMember       = errors.New("already in room")
	ErrNotMember           = errors.New("not in room")
	ErrDuplicateInvitation = errors.New("a pending invitation already exists")
	ErrInvitationResponded = errors.New("invitation already responded to")

	// Expiry
	ErrInvitationExpired = errors.New("invitation has expired")

	// Authorization
	ErrNotAuthenticated = errors.New("authentication required")
	ErrForbidden        = errors.New("not allowed")
)
