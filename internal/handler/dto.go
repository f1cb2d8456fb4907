package handler

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"peerchat-service/internal/domain"
	"peerchat-service/internal/repository"
)

func decodeTags(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

// RoomResponse is the API shape of a room.
type RoomResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	RoomKind        string     `json:"room_kind"`
	Description     string     `json:"description,omitempty"`
	CreatedBy       string     `json:"created_by"`
	IsActive        bool       `json:"is_active"`
	IsPrivate       bool       `json:"is_private"`
	MaxParticipants int        `json:"max_participants"`
	IsModerated     bool       `json:"is_moderated"`
	ModeratorID     *string    `json:"moderator_id,omitempty"`
	LastActivity    time.Time  `json:"last_activity"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ToRoomResponse(room *domain.Room) RoomResponse {
	resp := RoomResponse{
		ID:              room.ID.String(),
		Name:            room.Name,
		RoomKind:        string(room.RoomKind),
		Description:     room.Description,
		CreatedBy:       room.CreatedBy.String(),
		IsActive:        room.IsActive,
		IsPrivate:       room.IsPrivate,
		MaxParticipants: room.MaxParticipants,
		IsModerated:     room.IsModerated,
		LastActivity:    room.LastActivity,
		CreatedAt:       room.CreatedAt,
		UpdatedAt:       room.UpdatedAt,
	}
	if room.ModeratorID != nil {
		id := room.ModeratorID.String()
		resp.ModeratorID = &id
	}
	return resp
}

func ToRoomResponses(rooms []domain.Room) []RoomResponse {
	responses := make([]RoomResponse, len(rooms))
	for i := range rooms {
		responses[i] = ToRoomResponse(&rooms[i])
	}
	return responses
}

// MessageResponse is the API shape of a message.
type MessageResponse struct {
	ID          string             `json:"id"`
	RoomID      string             `json:"room_id"`
	SenderID    string             `json:"sender_id"`
	MessageKind string             `json:"message_kind"`
	Content     string             `json:"content"`
	Attachment  *string            `json:"attachment,omitempty"`
	ReplyToID   *string            `json:"reply_to_id,omitempty"`
	IsEdited    bool               `json:"is_edited"`
	EditedAt    *time.Time         `json:"edited_at,omitempty"`
	IsFlagged   bool               `json:"is_flagged"`
	Reactions   []ReactionResponse `json:"reactions,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

type ReactionResponse struct {
	UserID       string    `json:"user_id"`
	ReactionKind string    `json:"reaction_kind"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToMessageResponse(message *domain.Message) MessageResponse {
	resp := MessageResponse{
		ID:          message.ID.String(),
		RoomID:      message.RoomID.String(),
		SenderID:    message.SenderID.String(),
		MessageKind: string(message.MessageKind),
		Content:     message.Content,
		Attachment:  message.Attachment,
		IsEdited:    message.IsEdited,
		EditedAt:    message.EditedAt,
		IsFlagged:   message.IsFlagged,
		CreatedAt:   message.CreatedAt,
	}
	if message.ReplyToID != nil {
		id := message.ReplyToID.String()
		resp.ReplyToID = &id
	}
	for _, reaction := range message.Reactions {
		resp.Reactions = append(resp.Reactions, ReactionResponse{
			UserID:       reaction.UserID.String(),
			ReactionKind: string(reaction.ReactionKind),
			CreatedAt:    reaction.CreatedAt,
		})
	}
	return resp
}

func ToMessageResponses(messages []domain.Message) []MessageResponse {
	responses := make([]MessageResponse, len(messages))
	for i := range messages {
		responses[i] = ToMessageResponse(&messages[i])
	}
	return responses
}

// ParticipantResponse is the API shape of room membership and presence.
type ParticipantResponse struct {
	UserID               string     `json:"user_id"`
	Status               string     `json:"status"`
	JoinedAt             time.Time  `json:"joined_at"`
	LastSeen             time.Time  `json:"last_seen"`
	LeftAt               *time.Time `json:"left_at,omitempty"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	IsMuted              bool       `json:"is_muted"`
}

func ToParticipantResponses(participants []domain.RoomParticipant) []ParticipantResponse {
	responses := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		responses[i] = ParticipantResponse{
			UserID:               p.UserID.String(),
			Status:               string(p.Status),
			JoinedAt:             p.JoinedAt,
			LastSeen:             p.LastSeen,
			LeftAt:               p.LeftAt,
			NotificationsEnabled: p.NotificationsEnabled,
			IsMuted:              p.IsMuted,
		}
	}
	return responses
}

// InvitationResponse is the API shape of a room invitation.
type InvitationResponse struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	InviterID   string     `json:"inviter_id"`
	InviteeID   string     `json:"invitee_id"`
	Message     string     `json:"message,omitempty"`
	Status      string     `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToInvitationResponse(invitation *domain.RoomInvitation) InvitationResponse {
	return InvitationResponse{
		ID:          invitation.ID.String(),
		RoomID:      invitation.RoomID.String(),
		InviterID:   invitation.InviterID.String(),
		InviteeID:   invitation.InviteeID.String(),
		Message:     invitation.Message,
		Status:      string(invitation.Status),
		ExpiresAt:   invitation.ExpiresAt,
		RespondedAt: invitation.RespondedAt,
		CreatedAt:   invitation.CreatedAt,
	}
}

func ToInvitationResponses(invitations []domain.RoomInvitation) []InvitationResponse {
	responses := make([]InvitationResponse, len(invitations))
	for i := range invitations {
		responses[i] = ToInvitationResponse(&invitations[i])
	}
	return responses
}

// SupportRequestResponse is the API shape of a support request.
type SupportRequestResponse struct {
	ID          string     `json:"id"`
	RoomID      string     `json:"room_id"`
	RequesterID string     `json:"requester_id"`
	RequestType string     `json:"request_type"`
	Priority    string     `json:"priority"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      string     `json:"status"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToSupportRequestResponse(request *domain.SupportRequest) SupportRequestResponse {
	resp := SupportRequestResponse{
		ID:          request.ID.String(),
		RoomID:      request.RoomID.String(),
		RequesterID: request.RequesterID.String(),
		RequestType: string(request.RequestType),
		Priority:    string(request.Priority),
		Title:       request.Title,
		Description: request.Description,
		Status:      string(request.Status),
		ResolvedAt:  request.ResolvedAt,
		CreatedAt:   request.CreatedAt,
	}
	if request.AssigneeID != nil {
		id := request.AssigneeID.String()
		resp.AssigneeID = &id
	}
	resp.Tags = decodeTags(request.Tags)
	return resp
}

func ToSupportRequestResponses(requests []domain.SupportRequest) []SupportRequestResponse {
	responses := make([]SupportRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToSupportRequestResponse(&requests[i])
	}
	return responses
}

// ActivityResponse is the API shape of one activity entry.
type ActivityResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RoomID       string    `json:"room_id"`
	ActivityKind string    `json:"activity_kind"`
	MessageID    *string   `json:"message_id,omitempty"`
	InvitationID *string   `json:"invitation_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToActivityResponses(activities []domain.ChatActivity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		resp := ActivityResponse{
			ID:           a.ID.String(),
			UserID:       a.UserID.String(),
			RoomID:       a.RoomID.String(),
			ActivityKind: string(a.ActivityKind),
			CreatedAt:    a.CreatedAt,
		}
		if a.MessageID != nil {
			id := a.MessageID.String()
			resp.MessageID = &id
		}
		if a.InvitationID != nil {
			id := a.InvitationID.String()
			resp.InvitationID = &id
		}
		responses[i] = resp
	}
	return responses
}

// UserStatsResponse mirrors repository.UserStats with wire names.
type UserStatsResponse struct {
	TotalRooms         int64   `json:"total_rooms"`
	ActiveRooms        int64   `json:"active_rooms"`
	TotalMessages      int64   `json:"total_messages"`
	MessagesToday      int64   `json:"messages_today"`
	SupportRequests    int64   `json:"support_requests_created"`
	OpenSupportReqs    int64   `json:"open_support_requests"`
	AvgMessagesPerRoom float64 `json:"average_messages_per_room"`
	MostActiveRoom     string  `json:"most_active_room"`
	ParticipationRate  float64 `json:"participation_rate"`
}

func ToUserStatsResponse(stats *repository.UserStats) UserStatsResponse {
	return UserStatsResponse{
		TotalRooms:         stats.TotalRooms,
		ActiveRooms:        stats.ActiveRooms,
		TotalMessages:      stats.TotalMessages,
		MessagesToday:      stats.MessagesToday,
		SupportRequests:    stats.SupportRequests,
		OpenSupportReqs:    stats.OpenSupportRequests,
		AvgMessagesPerRoom: stats.AvgMessagesPerRoom,
		MostActiveRoom:     stats.MostActiveRoom,
		ParticipationRate:  stats.ParticipationRate,
	}
}

// RoomStatsResponse mirrors repository.RoomStats with wire names.
type RoomStatsResponse struct {
	ParticipantCount     int64   `json:"participant_count"`
	MessageCount         int64   `json:"message_count"`
	ReactionCount        int64   `json:"reaction_count"`
	OpenSupportRequests  int64   `json:"open_support_requests"`
	AvgResolutionSeconds float64 `json:"average_resolution_seconds"`
}

func ToRoomStatsResponse(stats *repository.RoomStats) RoomStatsResponse {
	return RoomStatsResponse{
		ParticipantCount:     stats.ParticipantCount,
		MessageCount:         stats.MessageCount,
		ReactionCount:        stats.ReactionCount,
		OpenSupportRequests:  stats.OpenSupportRequests,
		AvgResolutionSeconds: stats.AvgResolutionSeconds,
	}
}
