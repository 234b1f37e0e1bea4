package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/metrics"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
)

// MergeEngine appends scraped products to a room's food list.
type MergeEngine struct {
	rooms repository.RoomRepository
	log   *slog.Logger
}

func NewMergeEngine(rooms repository.RoomRepository, log *slog.Logger) *MergeEngine {
	if log == nil {
		log = slog.Default()
	}
	return &MergeEngine{rooms: rooms, log: log}
}

// MergeAndPersist appends one entry per record, keeping existing entries and
// any duplicate names, and returns the number appended. Nothing is written
// for an empty batch.
func (m *MergeEngine) MergeAndPersist(ctx context.Context, roomID uuid.UUID, records []domain.ProductRecord) (int, error) {
	const op = "service.merge.persist"

	if len(records) == 0 {
		return 0, nil
	}

	entries := make([]domain.FoodEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, domain.NewFoodEntry(record))
	}

	room, err := mutateRoom(ctx, m.rooms, roomID, op, func(room *domain.Room) (bool, error) {
		for _, entry := range entries {
			room.Food = append(room.Food, entry.Clone())
		}
		return true, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	metrics.IngredientsAppended.Add(float64(len(entries)))
	m.log.Info("ingredients merged",
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
		slog.Int("appended", len(entries)),
		slog.Int("total", len(room.Food)),
	)
	return len(entries), nil
}
