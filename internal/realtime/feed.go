// Package realtime fans room changes out to ingredient list subscribers.
package realtime

import (
	"context"

	"github.com/google/uuid"
)

// Change announces that a room was written at the given revision.
type Change struct {
	RoomID   uuid.UUID `json:"room_id"`
	Revision int64     `json:"revision"`
}

// Feed carries room change announcements. Deliveries may be coalesced: a
// slow subscriber sees at least the latest change, not necessarily every one.
type Feed interface {
	Publish(ctx context.Context, change Change) error
	// Subscribe returns a channel of changes for roomID and a cancel func
	// that releases the subscription and closes the channel.
	Subscribe(ctx context.Context, roomID uuid.UUID) (<-chan Change, func(), error)
}

// offer delivers c without blocking. A pending undelivered change is
// replaced by the newer one.
func offer(ch chan Change, c Change) {
	for {
		select {
		case ch <- c:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
