// Package broker is the per-room publish/subscribe registry behind room
// fan-out. Sessions subscribe a handle to a room topic; publishing after a
// write commits delivers the event to every currently-subscribed handle,
// including the publisher's own. Delivery is at-most-once and best-effort:
// there is no replay queue, the message log is independently readable on
// reconnect.
package broker

import (
	"context"

	"github.com/google/uuid"
)

// Subscriber is one live connection handle on a room topic.
type Subscriber interface {
	// Deliver offers a payload without blocking. It returns false when the
	// subscriber cannot accept the event promptly; the broker then drops
	// the subscriber from the registry and it must re-subscribe.
	Deliver(payload []byte) bool
}

// Broker fans events out to room subscribers. Implementations must never
// serialize unrelated rooms behind one lock.
type Broker interface {
	Subscribe(roomID uuid.UUID, sub Subscriber)
	Unsubscribe(roomID uuid.UUID, sub Subscriber)
	Publish(ctx context.Context, roomID uuid.UUID, payload []byte) error
	Close() error
}
