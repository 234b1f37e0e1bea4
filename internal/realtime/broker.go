package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Broker is an in-process Feed.
type Broker struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan Change]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uuid.UUID]map[chan Change]struct{})}
}

func (b *Broker) Publish(ctx context.Context, change Change) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[change.RoomID] {
		offer(ch, change)
	}
	return nil
}

func (b *Broker) Subscribe(ctx context.Context, roomID uuid.UUID) (<-chan Change, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	ch := make(chan Change, 1)

	b.mu.Lock()
	if b.subs[roomID] == nil {
		b.subs[roomID] = make(map[chan Change]struct{})
	}
	b.subs[roomID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[roomID], ch)
			if len(b.subs[roomID]) == 0 {
				delete(b.subs, roomID)
			}
			close(ch)
		})
	}

	return ch, cancel, nil
}

func (b *Broker) subscribers(roomID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[roomID])
}
