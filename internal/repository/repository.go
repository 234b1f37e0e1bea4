package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
)

var (
	ErrRoomNotFound    = fmt.Errorf("room %w", domain.ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrUserEmailExists = errors.New("user with email already exists")
	// ErrRevisionConflict means the stored room changed since it was read.
	ErrRevisionConflict = errors.New("room revision conflict")
	// ErrRoomReferenceChanged means the user's stored room differs from the
	// one the caller expected to replace.
	ErrRoomReferenceChanged = errors.New("user room reference changed")
)

// RoomRepository stores room documents. Update is a compare-and-set on
// Room.Revision: it succeeds only when the stored revision equals the one
// the caller read, and bumps room.Revision in place on success.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
}

// UserRepository stores user documents. Writes after Create touch a single
// field so that preference edits and room moves never overwrite each other.
// SetRoom is a compare-and-set on the back-reference: it only replaces from
// with to, where nil means no room.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, preferences string) (*domain.User, error)
	SetRoom(ctx context.Context, id uuid.UUID, from, to *uuid.UUID) error
}
