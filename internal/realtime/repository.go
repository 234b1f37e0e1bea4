package realtime

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

// NotifyingRoomRepository publishes a Change after every successful room
// write. A failed publish is logged and does not fail the write.
type NotifyingRoomRepository struct {
	repository.RoomRepository
	feed Feed
	log  *slog.Logger
}

func NewNotifyingRoomRepository(rooms repository.RoomRepository, feed Feed, log *slog.Logger) *NotifyingRoomRepository {
	if log == nil {
		log = slog.Default()
	}
	return &NotifyingRoomRepository{RoomRepository: rooms, feed: feed, log: log}
}

func (r *NotifyingRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := r.RoomRepository.Create(ctx, room); err != nil {
		return err
	}
	r.publish(ctx, room.ID, room.Revision)
	return nil
}

func (r *NotifyingRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if err := r.RoomRepository.Update(ctx, room); err != nil {
		return err
	}
	r.publish(ctx, room.ID, room.Revision)
	return nil
}

func (r *NotifyingRoomRepository) publish(ctx context.Context, roomID uuid.UUID, revision int64) {
	// The write is committed; announce it even if the request was canceled.
	ctx = context.WithoutCancel(ctx)
	if err := r.feed.Publish(ctx, Change{RoomID: roomID, Revision: revision}); err != nil {
		r.log.Warn("failed to publish room change",
			slog.String("room_id", roomID.String()),
			sl.Err(err),
		)
	}
}
