package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/broker"
	"peerchat-service/internal/client"
	"peerchat-service/internal/domain"
	"peerchat-service/internal/service"
)

type stubBroker struct {
	subscribed   int
	unsubscribed int
	published    [][]byte
}

func (b *stubBroker) Subscribe(roomID uuid.UUID, sub broker.Subscriber)   { b.subscribed++ }
func (b *stubBroker) Unsubscribe(roomID uuid.UUID, sub broker.Subscriber) { b.unsubscribed++ }
func (b *stubBroker) Publish(ctx context.Context, roomID uuid.UUID, payload []byte) error {
	b.published = append(b.published, payload)
	return nil
}
func (b *stubBroker) Close() error { return nil }

type stubMessageService struct {
	service.MessageService

	appended  []string
	appendErr error
}

func (s *stubMessageService) Append(ctx context.Context, roomID uuid.UUID, sender client.Identity, input service.AppendMessageInput) (*domain.Message, error) {
	if s.appendErr != nil {
		return nil, s.appendErr
	}
	s.appended = append(s.appended, input.Content)
	return &domain.Message{RoomID: roomID, SenderID: sender.UserID, Content: input.Content}, nil
}

type stubPresenceService struct {
	service.PresenceService

	connects    int
	disconnects int
	statuses    []domain.ParticipantStatus
}

func (s *stubPresenceService) Connect(ctx context.Context, roomID, userID uuid.UUID) error {
	s.connects++
	return nil
}

func (s *stubPresenceService) Disconnect(ctx context.Context, roomID, userID uuid.UUID) error {
	s.disconnects++
	return nil
}

func (s *stubPresenceService) SetStatus(ctx context.Context, roomID, userID uuid.UUID, status domain.ParticipantStatus) error {
	if !domain.ValidParticipantStatus(status) {
		return domain.ErrInvalidStatus
	}
	s.statuses = append(s.statuses, status)
	return nil
}

func newTestSession(identity client.Identity) (*Session, *stubBroker, *stubMessageService, *stubPresenceService) {
	b := &stubBroker{}
	messages := &stubMessageService{}
	presence := &stubPresenceService{}
	s := NewSession(nil, uuid.New(), identity, b, messages, presence, zap.NewNop())
	return s, b, messages, presence
}

func authenticated() client.Identity {
	return client.Identity{UserID: uuid.New(), Alias: "river", IsAuthenticated: true}
}

// drain pops one queued outbound payload, failing if none is pending.
func drain(t *testing.T, s *Session) map[string]interface{} {
	t.Helper()
	select {
	case payload := <-s.send:
		var decoded map[string]interface{}
		if err := json.Unmarshal(payload, &decoded); err != nil {
			t.Fatalf("failed to decode outbound frame: %v", err)
		}
		return decoded
	default:
		t.Fatal("expected a queued outbound frame")
		return nil
	}
}

func TestSession_FramesDroppedBeforeJoin(t *testing.T) {
	s, _, messages, _ := newTestSession(authenticated())
	ctx := context.Background()

	s.HandleFrame(ctx, &InboundFrame{Type: FrameChatMessage, Message: "too early"})

	if len(messages.appended) != 0 {
		t.Errorf("frame before join should be dropped, appended %d", len(messages.appended))
	}
	if len(s.send) != 0 {
		t.Errorf("no outbound frames expected, got %d", len(s.send))
	}
}

func TestSession_JoinAnnouncesPresence(t *testing.T) {
	s, b, _, presence := newTestSession(authenticated())
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if b.subscribed != 1 {
		t.Errorf("expected 1 subscription, got %d", b.subscribed)
	}
	if presence.connects != 1 {
		t.Errorf("expected 1 presence connect, got %d", presence.connects)
	}
	if len(b.published) != 1 {
		t.Fatalf("expected 1 published status frame, got %d", len(b.published))
	}

	var frame struct {
		Type   string `json:"type"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(b.published[0], &frame); err != nil {
		t.Fatalf("failed to decode status frame: %v", err)
	}
	if frame.Type != FrameUserStatus || frame.Status != string(domain.ParticipantActive) {
		t.Errorf("unexpected join announcement: %+v", frame)
	}
}

func TestSession_AnonymousJoinSkipsPresence(t *testing.T) {
	s, b, _, presence := newTestSession(client.Identity{})
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if presence.connects != 0 {
		t.Errorf("anonymous session should not touch presence, got %d connects", presence.connects)
	}
	if len(b.published) != 0 {
		t.Errorf("anonymous session should not announce, published %d", len(b.published))
	}
}

func TestSession_ChatMessage(t *testing.T) {
	s, _, messages, _ := newTestSession(authenticated())
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	s.HandleFrame(ctx, &InboundFrame{Type: FrameChatMessage, Message: "hello room"})

	if len(messages.appended) != 1 || messages.appended[0] != "hello room" {
		t.Errorf("unexpected appended messages: %v", messages.appended)
	}
}

func TestSession_ChatMessageRequiresAuth(t *testing.T) {
	s, _, messages, _ := newTestSession(client.Identity{})
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	s.HandleFrame(ctx, &InboundFrame{Type: FrameChatMessage, Message: "anon"})

	if len(messages.appended) != 0 {
		t.Errorf("anonymous message should be rejected, appended %d", len(messages.appended))
	}
	frame := drain(t, s)
	if frame["type"] != FrameError {
		t.Errorf("expected error frame, got %v", frame["type"])
	}
	if frame["message"] != "authentication required" {
		t.Errorf("unexpected error text %v", frame["message"])
	}
}

func TestSession_ChatMessageValidationError(t *testing.T) {
	s, _, messages, _ := newTestSession(authenticated())
	messages.appendErr = domain.ErrEmptyMessage
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	s.HandleFrame(ctx, &InboundFrame{Type: FrameChatMessage})

	frame := drain(t, s)
	if frame["type"] != FrameError {
		t.Errorf("expected error frame, got %v", frame["type"])
	}
	if frame["message"] != "message body must not be empty" {
		t.Errorf("unexpected error text %v", frame["message"])
	}
}

func TestSession_Typing(t *testing.T) {
	s, b, _, _ := newTestSession(authenticated())
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	before := len(b.published)
	s.HandleFrame(ctx, &InboundFrame{Type: FrameTyping, IsTyping: true})

	if len(b.published) != before+1 {
		t.Fatalf("expected a typing frame to be published")
	}
	var frame struct {
		Type     string `json:"type"`
		IsTyping bool   `json:"is_typing"`
	}
	if err := json.Unmarshal(b.published[before], &frame); err != nil {
		t.Fatalf("failed to decode typing frame: %v", err)
	}
	if frame.Type != FrameTyping || !frame.IsTyping {
		t.Errorf("unexpected typing frame: %+v", frame)
	}
}

func TestSession_UserStatus(t *testing.T) {
	s, _, _, presence := newTestSession(authenticated())
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	s.HandleFrame(ctx, &InboundFrame{Type: FrameUserStatus, Status: "away"})

	if len(presence.statuses) != 1 || presence.statuses[0] != domain.ParticipantAway {
		t.Errorf("unexpected statuses: %v", presence.statuses)
	}

	s.HandleFrame(ctx, &InboundFrame{Type: FrameUserStatus, Status: "sleeping"})
	frame := drain(t, s)
	if frame["type"] != FrameError {
		t.Errorf("expected error frame for invalid status, got %v", frame["type"])
	}
}

func TestSession_UnknownFrameType(t *testing.T) {
	s, _, _, _ := newTestSession(authenticated())
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	s.HandleFrame(ctx, &InboundFrame{Type: "ocean_noises"})

	frame := drain(t, s)
	if frame["type"] != FrameError {
		t.Errorf("expected error frame, got %v", frame["type"])
	}
}

func TestSession_Close(t *testing.T) {
	s, b, messages, presence := newTestSession(authenticated())
	ctx := context.Background()

	if err := s.Join(ctx); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if !s.Deliver([]byte(`{"type":"chat_message"}`)) {
		t.Error("delivery to live session should succeed")
	}

	s.Close(ctx)
	s.Close(ctx) // idempotent

	if b.unsubscribed != 1 {
		t.Errorf("expected 1 unsubscribe, got %d", b.unsubscribed)
	}
	if presence.disconnects != 1 {
		t.Errorf("expected 1 presence disconnect, got %d", presence.disconnects)
	}

	if s.Deliver([]byte("late")) {
		t.Error("delivery after close should be refused")
	}

	// Dropped after close: frames no longer reach the services.
	s.HandleFrame(ctx, &InboundFrame{Type: FrameChatMessage, Message: "after close"})
	if len(messages.appended) != 0 {
		t.Errorf("frame after close should be dropped, appended %d", len(messages.appended))
	}

	// Close publishes a final offline announcement.
	last := b.published[len(b.published)-1]
	var frame struct {
		Type   string `json:"type"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(last, &frame); err != nil {
		t.Fatalf("failed to decode status frame: %v", err)
	}
	if frame.Type != FrameUserStatus || frame.Status != string(domain.ParticipantOffline) {
		t.Errorf("unexpected close announcement: %+v", frame)
	}
}

func TestSession_DeliverRefusesWhenFull(t *testing.T) {
	s, _, _, _ := newTestSession(authenticated())

	for i := 0; i < sendBuffer; i++ {
		if !s.Deliver([]byte("fill")) {
			t.Fatalf("delivery %d should succeed", i)
		}
	}
	if s.Deliver([]byte("overflow")) {
		t.Error("delivery to a full session should be refused")
	}
}
