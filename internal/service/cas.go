package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/metrics"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
)

const maxConflictRetries = 8

// mutateRoom reads the room, applies fn and writes it back conditionally on
// the revision read. On a conflict the room is re-read and fn re-applied.
// fn reports whether it changed the room; unchanged rooms are not written.
func mutateRoom(
	ctx context.Context,
	rooms repository.RoomRepository,
	roomID uuid.UUID,
	op string,
	fn func(room *domain.Room) (bool, error),
) (*domain.Room, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		room, err := rooms.GetByID(ctx, roomID)
		if err != nil {
			return nil, err
		}

		changed, err := fn(room)
		if err != nil {
			return nil, err
		}
		if !changed {
			return room, nil
		}

		err = rooms.Update(ctx, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, repository.ErrRevisionConflict) {
			return nil, err
		}
		metrics.RevisionConflicts.WithLabelValues(op).Inc()
	}

	return nil, fmt.Errorf("%s: %w", op, ErrConcurrentUpdate)
}
