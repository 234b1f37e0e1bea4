package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
)

type InMemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*domain.Room
}

func NewInMemoryRoomRepository() *InMemoryRoomRepository {
	return &InMemoryRoomRepository{
		rooms: make(map[uuid.UUID]*domain.Room),
	}
}

func (r *InMemoryRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return errors.New("room is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; ok {
		return errors.New("room already exists")
	}

	room.Revision = 1
	r.rooms[room.ID] = room.Clone()
	return nil
}

func (r *InMemoryRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (r *InMemoryRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return errors.New("room is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rooms[room.ID]
	if !ok {
		return ErrRoomNotFound
	}
	if stored.Revision != room.Revision {
		return ErrRevisionConflict
	}

	room.Revision++
	r.rooms[room.ID] = room.Clone()
	return nil
}

type InMemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]*domain.User
	emails map[string]uuid.UUID
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:  make(map[uuid.UUID]*domain.User),
		emails: make(map[string]uuid.UUID),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Email != "" {
		if _, ok := r.emails[user.Email]; ok {
			return ErrUserEmailExists
		}
		r.emails[user.Email] = user.ID
	}

	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	return cloneUser(user), nil
}

func (r *InMemoryUserRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, preferences string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	user.Preferences = preferences
	user.UpdatedAt = time.Now().UTC()
	return cloneUser(user), nil
}

func (r *InMemoryUserRepository) SetRoom(ctx context.Context, id uuid.UUID, from, to *uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if !sameRoom(user.RoomID, from) {
		return ErrRoomReferenceChanged
	}

	if to == nil {
		user.ClearRoom()
	} else {
		user.SetRoom(*to)
	}
	return nil
}

func sameRoom(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneUser(user *domain.User) *domain.User {
	c := *user
	if user.RoomID != nil {
		id := *user.RoomID
		c.RoomID = &id
	}
	return &c
}
