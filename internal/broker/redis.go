package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroker backs the room registry with Redis pub/sub so several
// instances can share fan-out. Publishes go to the room channel only;
// local delivery happens when the message comes back through the
// subscription, which keeps ordering identical for every instance.
type RedisBroker struct {
	local  *MemoryBroker
	client *redis.Client
	logger *zap.Logger

	mu         sync.Mutex
	forwarders map[uuid.UUID]*roomForwarder
}

type roomForwarder struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
	refs   int
}

func NewRedisBroker(client *redis.Client, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{
		local:      NewMemoryBroker(logger),
		client:     client,
		logger:     logger,
		forwarders: make(map[uuid.UUID]*roomForwarder),
	}
}

func roomChannel(roomID uuid.UUID) string {
	return fmt.Sprintf("room:%s", roomID.String())
}

func (b *RedisBroker) Subscribe(roomID uuid.UUID, sub Subscriber) {
	b.local.Subscribe(roomID, sub)

	b.mu.Lock()
	defer b.mu.Unlock()
	if fw, ok := b.forwarders[roomID]; ok {
		fw.refs++
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	pubsub := b.client.Subscribe(ctx, roomChannel(roomID))
	fw := &roomForwarder{pubsub: pubsub, cancel: cancel, refs: 1}
	b.forwarders[roomID] = fw

	go b.forward(ctx, roomID, pubsub)
}

func (b *RedisBroker) forward(ctx context.Context, roomID uuid.UUID, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := b.local.Publish(ctx, roomID, []byte(msg.Payload)); err != nil {
				b.logger.Warn("failed to forward room event",
					zap.String("room_id", roomID.String()), zap.Error(err))
			}
		}
	}
}

func (b *RedisBroker) Unsubscribe(roomID uuid.UUID, sub Subscriber) {
	b.local.Unsubscribe(roomID, sub)

	b.mu.Lock()
	defer b.mu.Unlock()
	fw, ok := b.forwarders[roomID]
	if !ok {
		return
	}
	fw.refs--
	if fw.refs > 0 {
		return
	}
	fw.cancel()
	_ = fw.pubsub.Close()
	delete(b.forwarders, roomID)
}

func (b *RedisBroker) Publish(ctx context.Context, roomID uuid.UUID, payload []byte) error {
	return b.client.Publish(ctx, roomChannel(roomID), payload).Err()
}

func (b *RedisBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for roomID, fw := range b.forwarders {
		fw.cancel()
		_ = fw.pubsub.Close()
		delete(b.forwarders, roomID)
	}
	return b.local.Close()
}
