package ws

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"peerchat-service/internal/broker"
	"peerchat-service/internal/client"
	"peerchat-service/internal/domain"
	"peerchat-service/internal/middleware"
	"peerchat-service/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	sendBuffer = 256
)

// Session lifecycle. Frames arriving outside the joined state are
// dropped; a session never reopens after closing.
const (
	stateConnecting int32 = iota
	stateJoined
	stateClosed
)

// Session binds one websocket connection to one room. It is the room's
// broker subscriber for this connection and relays inbound frames into
// the services.
type Session struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	roomID   uuid.UUID
	identity client.Identity

	state     atomic.Int32
	closeOnce sync.Once

	broker   broker.Broker
	messages service.MessageService
	presence service.PresenceService
	logger   *zap.Logger
}

func NewSession(
	conn *websocket.Conn,
	roomID uuid.UUID,
	identity client.Identity,
	b broker.Broker,
	messages service.MessageService,
	presence service.PresenceService,
	logger *zap.Logger,
) *Session {
	s := &Session{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		roomID:   roomID,
		identity: identity,
		broker:   b,
		messages: messages,
		presence: presence,
		logger:   logger,
	}
	s.state.Store(stateConnecting)
	return s
}

// Deliver implements broker.Subscriber. Slow consumers are reported to
// the broker by returning false, which unsubscribes them.
func (s *Session) Deliver(payload []byte) bool {
	select {
	case <-s.done:
		return false
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Join subscribes the session to its room and marks the caller active.
// After Join returns, the session receives every event published to the
// room, including echoes of its own messages.
func (s *Session) Join(ctx context.Context) error {
	s.broker.Subscribe(s.roomID, s)
	s.state.Store(stateJoined)

	if s.identity.IsAuthenticated {
		if err := s.presence.Connect(ctx, s.roomID, s.identity.UserID); err != nil {
			s.logger.Warn("failed to mark session active",
				zap.String("room_id", s.roomID.String()),
				zap.Error(err))
		}
		s.publish(ctx, UserStatusFrame(s.identity, domain.ParticipantActive))
	}

	middleware.RecordWebSocketConnection()
	s.logger.Info("session joined",
		zap.String("room_id", s.roomID.String()),
		zap.String("user_id", s.identity.UserID.String()))
	return nil
}

// Run starts the pumps and blocks until the read side ends.
func (s *Session) Run(ctx context.Context) {
	go s.writePump()
	s.readPump(ctx)
}

func (s *Session) readPump(ctx context.Context) {
	defer s.Close(ctx)

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		frame, err := ParseInbound(raw)
		if err != nil {
			s.enqueue(ErrorFrame("malformed frame"))
			continue
		}
		s.HandleFrame(ctx, frame)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// HandleFrame dispatches one inbound frame. Frames received before Join
// or after Close are silently dropped.
func (s *Session) HandleFrame(ctx context.Context, frame *InboundFrame) {
	if s.state.Load() != stateJoined {
		return
	}

	switch frame.Type {
	case FrameChatMessage:
		s.handleChatMessage(ctx, frame)
	case FrameTyping:
		s.handleTyping(ctx, frame)
	case FrameUserStatus:
		s.handleUserStatus(ctx, frame)
	default:
		s.enqueue(ErrorFrame("unknown frame type"))
	}
}

func (s *Session) handleChatMessage(ctx context.Context, frame *InboundFrame) {
	if !s.identity.IsAuthenticated {
		s.enqueue(ErrorFrame("authentication required"))
		return
	}

	_, err := s.messages.Append(ctx, s.roomID, s.identity, service.AppendMessageInput{
		MessageKind: domain.MessageKindText,
		Content:     frame.Message,
	})
	if err != nil {
		s.enqueue(ErrorFrame(errorText(err)))
		return
	}
	// Fan-out happens through the broker once the row is committed; the
	// sender sees its own message via the room subscription.
}

func (s *Session) handleTyping(ctx context.Context, frame *InboundFrame) {
	if !s.identity.IsAuthenticated {
		s.enqueue(ErrorFrame("authentication required"))
		return
	}
	s.publish(ctx, TypingFrame(s.identity, frame.IsTyping))
}

func (s *Session) handleUserStatus(ctx context.Context, frame *InboundFrame) {
	if !s.identity.IsAuthenticated {
		s.enqueue(ErrorFrame("authentication required"))
		return
	}

	status := domain.ParticipantStatus(frame.Status)
	if err := s.presence.SetStatus(ctx, s.roomID, s.identity.UserID, status); err != nil {
		s.enqueue(ErrorFrame(errorText(err)))
		return
	}
	s.publish(ctx, UserStatusFrame(s.identity, status))
}

// Close tears the session down exactly once: unsubscribes, marks the
// participant offline, and announces the drop to the room.
func (s *Session) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		s.state.Store(stateClosed)
		s.broker.Unsubscribe(s.roomID, s)

		if s.identity.IsAuthenticated {
			if err := s.presence.Disconnect(ctx, s.roomID, s.identity.UserID); err != nil {
				s.logger.Warn("failed to mark session offline",
					zap.String("room_id", s.roomID.String()),
					zap.Error(err))
			}
			s.publish(ctx, UserStatusFrame(s.identity, domain.ParticipantOffline))
		}

		close(s.done)
		if s.conn != nil {
			s.conn.Close()
		}
		middleware.RecordWebSocketDisconnection()

		s.logger.Info("session closed",
			zap.String("room_id", s.roomID.String()),
			zap.String("user_id", s.identity.UserID.String()))
	})
}

func (s *Session) publish(ctx context.Context, payload []byte) {
	if err := s.broker.Publish(ctx, s.roomID, payload); err != nil {
		s.logger.Warn("failed to publish frame",
			zap.String("room_id", s.roomID.String()),
			zap.Error(err))
	}
}

func (s *Session) enqueue(payload []byte) {
	select {
	case <-s.done:
	case s.send <- payload:
	default:
	}
}

// errorText maps service errors to client-safe frame messages.
func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case err == domain.ErrEmptyMessage:
		return "message body must not be empty"
	case err == domain.ErrMessageTooLong:
		return "message body exceeds 2000 characters"
	case err == domain.ErrNotMember:
		return "not a participant of this room"
	case err == domain.ErrInvalidStatus:
		return "invalid status"
	default:
		return "operation failed"
	}
}
