package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Publish(ctx context.Context, change Change) error {
	return m.Called(ctx, change).Error(0)
}

func (m *MockFeed) Subscribe(ctx context.Context, roomID uuid.UUID) (<-chan Change, func(), error) {
	args := m.Called(ctx, roomID)
	ch, _ := args.Get(0).(<-chan Change)
	cancel, _ := args.Get(1).(func())
	return ch, cancel, args.Error(2)
}

func TestNotifyingRoomRepository_PublishesAfterWrites(t *testing.T) {
	feed := new(MockFeed)
	rooms := NewNotifyingRoomRepository(repository.NewInMemoryRoomRepository(), feed, nil)
	room := domain.NewRoom(uuid.New())

	feed.On("Publish", mock.Anything, Change{RoomID: room.ID, Revision: 1}).Return(nil).Once()
	feed.On("Publish", mock.Anything, Change{RoomID: room.ID, Revision: 2}).Return(nil).Once()

	require.NoError(t, rooms.Create(context.Background(), room))
	require.NoError(t, rooms.Update(context.Background(), room))

	feed.AssertExpectations(t)
}

func TestNotifyingRoomRepository_NoPublishOnFailedWrite(t *testing.T) {
	feed := new(MockFeed)
	rooms := NewNotifyingRoomRepository(repository.NewInMemoryRoomRepository(), feed, nil)
	room := domain.NewRoom(uuid.New())

	err := rooms.Update(context.Background(), room)

	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
	feed.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestNotifyingRoomRepository_PublishFailureDoesNotFailWrite(t *testing.T) {
	feed := new(MockFeed)
	rooms := NewNotifyingRoomRepository(repository.NewInMemoryRoomRepository(), feed, nil)
	feed.On("Publish", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	assert.NoError(t, rooms.Create(context.Background(), domain.NewRoom(uuid.New())))
}

func TestRedisFeed_ChannelAndDecode(t *testing.T) {
	feed := NewRedisFeed(nil, "hotpot:", nil)
	room := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	assert.Equal(t, "hotpot:room:7c9e6679-7425-40de-944b-e07fc1f90ae7:changes", feed.channel(room))

	change, err := decodeChange(`{"room_id":"7c9e6679-7425-40de-944b-e07fc1f90ae7","revision":3}`)
	require.NoError(t, err)
	assert.Equal(t, Change{RoomID: room, Revision: 3}, change)

	_, err = decodeChange(`{"revision":3}`)
	assert.Error(t, err)
	_, err = decodeChange(`not json`)
	assert.Error(t, err)
}

func TestOffer_ReplacesPending(t *testing.T) {
	ch := make(chan Change, 1)
	room := uuid.New()

	offer(ch, Change{RoomID: room, Revision: 1})
	offer(ch, Change{RoomID: room, Revision: 2})

	select {
	case c := <-ch:
		assert.Equal(t, int64(2), c.Revision)
	case <-time.After(time.Second):
		t.Fatal("nothing pending")
	}
}
