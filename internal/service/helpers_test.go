package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	rooms *repository.InMemoryRoomRepository
	users *repository.InMemoryUserRepository
}

func newFixture() *fixture {
	return &fixture{
		rooms: repository.NewInMemoryRoomRepository(),
		users: repository.NewInMemoryUserRepository(),
	}
}

func (f *fixture) user(t *testing.T, email, preferences string) *domain.User {
	t.Helper()
	u := domain.NewUser(email, preferences, "")
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) room(t *testing.T, members ...uuid.UUID) *domain.Room {
	t.Helper()
	r := domain.NewRoom(members[0])
	r.Members = append(r.Members, members[1:]...)
	require.NoError(t, f.rooms.Create(context.Background(), r))
	return r
}

func (f *fixture) reloadRoom(t *testing.T, id uuid.UUID) *domain.Room {
	t.Helper()
	r, err := f.rooms.GetByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

func (f *fixture) reloadUser(t *testing.T, id uuid.UUID) *domain.User {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

// conflictingRooms loses every compare-and-set.
type conflictingRooms struct {
	*repository.InMemoryRoomRepository
	updates int
}

func (r *conflictingRooms) Update(ctx context.Context, room *domain.Room) error {
	r.updates++
	return repository.ErrRevisionConflict
}
