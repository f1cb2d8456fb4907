package ws

import (
	"encoding/json"

	"peerchat-service/internal/client"
	"peerchat-service/internal/domain"
)

// Frame type discriminators shared by both directions of the socket.
const (
	FrameChatMessage = "chat_message"
	FrameTyping      = "typing"
	FrameUserStatus  = "user_status"
	FrameError       = "error"
)

// InboundFrame is the tagged union a connected client may send.
type InboundFrame struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	IsTyping bool   `json:"is_typing,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ParseInbound decodes a raw socket frame.
func ParseInbound(raw []byte) (*InboundFrame, error) {
	var frame InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, err
	}
	return &frame, nil
}

type userRef struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

func refOf(identity client.Identity) userRef {
	return userRef{ID: identity.UserID.String(), Alias: identity.Alias}
}

// TypingFrame mirrors a typing notification to the room.
func TypingFrame(sender client.Identity, isTyping bool) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"type":      FrameTyping,
		"user":      refOf(sender),
		"is_typing": isTyping,
	})
	return payload
}

// UserStatusFrame announces a presence change.
func UserStatusFrame(user client.Identity, status domain.ParticipantStatus) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"type":   FrameUserStatus,
		"user":   refOf(user),
		"status": string(status),
	})
	return payload
}

// ErrorFrame is sent back to the offending client only.
func ErrorFrame(message string) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"type":    FrameError,
		"message": message,
	})
	return payload
}
