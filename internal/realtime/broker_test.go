package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_PublishReachesRoomSubscribersOnly(t *testing.T) {
	b := NewBroker()
	ctx := context.Background()
	roomA, roomB := uuid.New(), uuid.New()

	chA, cancelA, err := b.Subscribe(ctx, roomA)
	require.NoError(t, err)
	defer cancelA()
	chB, cancelB, err := b.Subscribe(ctx, roomB)
	require.NoError(t, err)
	defer cancelB()

	require.NoError(t, b.Publish(ctx, Change{RoomID: roomA, Revision: 2}))

	select {
	case c := <-chA:
		assert.Equal(t, Change{RoomID: roomA, Revision: 2}, c)
	case <-time.After(time.Second):
		t.Fatal("change not delivered")
	}

	select {
	case c := <-chB:
		t.Fatalf("unexpected change %v", c)
	default:
	}
}

func TestBroker_CoalescesPendingChanges(t *testing.T) {
	b := NewBroker()
	ctx := context.Background()
	room := uuid.New()

	ch, cancel, err := b.Subscribe(ctx, room)
	require.NoError(t, err)
	defer cancel()

	for rev := int64(1); rev <= 5; rev++ {
		require.NoError(t, b.Publish(ctx, Change{RoomID: room, Revision: rev}))
	}

	c := <-ch
	assert.Equal(t, int64(5), c.Revision)
}

func TestBroker_CancelClosesAndIsIdempotent(t *testing.T) {
	b := NewBroker()
	room := uuid.New()

	ch, cancel, err := b.Subscribe(context.Background(), room)
	require.NoError(t, err)
	assert.Equal(t, 1, b.subscribers(room))

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.subscribers(room))
	assert.NoError(t, b.Publish(context.Background(), Change{RoomID: room, Revision: 1}))
}
