package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/metrics"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

type RoomReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
}

// Notifier pushes the normalized ingredient list of a room to subscribers
// whenever the room changes.
type Notifier struct {
	rooms RoomReader
	feed  Feed
	log   *slog.Logger
}

func NewNotifier(rooms RoomReader, feed Feed, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{rooms: rooms, feed: feed, log: log}
}

// Subscribe calls onUpdate with the current ingredient list and then again
// after every change of the room. Calls are made from a single goroutine, in
// order. The subscription ends when ctx is done or the returned func is
// called; calling it more than once is safe.
func (n *Notifier) Subscribe(ctx context.Context, roomID uuid.UUID, onUpdate func([]domain.Ingredient)) (func(), error) {
	const op = "realtime.notifier.subscribe"
	log := n.log.With(slog.String("op", op), slog.String("room_id", roomID.String()))

	changes, cancelFeed, err := n.feed.Subscribe(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	room, err := n.rooms.GetByID(ctx, roomID)
	if err != nil {
		cancelFeed()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	done := make(chan struct{})
	var once sync.Once
	unsubscribe := func() {
		once.Do(func() { close(done) })
	}

	metrics.RealtimeSubscribers.Inc()
	log.Debug("subscribed")

	go func() {
		defer func() {
			cancelFeed()
			metrics.RealtimeSubscribers.Dec()
			log.Debug("unsubscribed")
		}()

		last := room.Revision
		onUpdate(room.Ingredients())

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case change, ok := <-changes:
				if !ok {
					return
				}
				if change.Revision != 0 && change.Revision <= last {
					continue
				}

				current, err := n.rooms.GetByID(ctx, roomID)
				if err != nil {
					log.Warn("failed to reload room", sl.Err(err))
					continue
				}
				if current.Revision <= last {
					continue
				}
				last = current.Revision

				select {
				case <-done:
					return
				default:
				}
				onUpdate(current.Ingredients())
			}
		}
	}()

	return unsubscribe, nil
}
