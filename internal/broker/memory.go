package broker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// topic holds the subscriber set for one room behind its own lock, so
// publishing in one room never contends with another.
type topic struct {
	mu   sync.RWMutex
	subs map[Subscriber]struct{}
}

// MemoryBroker is the in-process Broker. The outer lock only guards the
// room map; per-room state is guarded per topic.
type MemoryBroker struct {
	mu     sync.RWMutex
	topics map[uuid.UUID]*topic
	logger *zap.Logger
}

func NewMemoryBroker(logger *zap.Logger) *MemoryBroker {
	return &MemoryBroker{
		topics: make(map[uuid.UUID]*topic),
		logger: logger,
	}
}

// Subscribe holds the registry lock across the insert so the topic it
// lands on cannot be reaped by a concurrent Unsubscribe in between.
// Lock order is always registry then topic.
func (b *MemoryBroker) Subscribe(roomID uuid.UUID, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[roomID]
	if !ok {
		t = &topic{subs: make(map[Subscriber]struct{})}
		b.topics[roomID] = t
	}

	t.mu.Lock()
	t.subs[sub] = struct{}{}
	t.mu.Unlock()
}

func (b *MemoryBroker) Unsubscribe(roomID uuid.UUID, sub Subscriber) {
	b.mu.RLock()
	t, ok := b.topics[roomID]
	b.mu.RUnlock()
	if !ok {
		return
	}

	t.mu.Lock()
	delete(t.subs, sub)
	empty := len(t.subs) == 0
	t.mu.Unlock()

	if !empty {
		return
	}

	// Reap the topic only under both locks, re-checking that the map
	// still holds this topic and that it is still empty: a subscriber
	// may have arrived since the check above, and the entry may already
	// have been replaced.
	b.mu.Lock()
	if cur, ok := b.topics[roomID]; ok && cur == t {
		t.mu.Lock()
		if len(t.subs) == 0 {
			delete(b.topics, roomID)
		}
		t.mu.Unlock()
	}
	b.mu.Unlock()
}

// Publish delivers payload to every current subscriber of the room.
// Subscribers that refuse delivery are dropped from the registry.
func (b *MemoryBroker) Publish(ctx context.Context, roomID uuid.UUID, payload []byte) error {
	b.mu.RLock()
	t, ok := b.topics[roomID]
	b.mu.RUnlock()
	if !ok {
		return nil
	}

	t.mu.RLock()
	subs := make([]Subscriber, 0, len(t.subs))
	for sub := range t.subs {
		subs = append(subs, sub)
	}
	t.mu.RUnlock()

	for _, sub := range subs {
		if !sub.Deliver(payload) {
			b.logger.Warn("dropping slow subscriber",
				zap.String("room_id", roomID.String()))
			b.Unsubscribe(roomID, sub)
		}
	}
	return nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	b.topics = make(map[uuid.UUID]*topic)
	b.mu.Unlock()
	return nil
}
