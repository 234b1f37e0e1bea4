package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
)

// IngredientService edits a room's food list by hand. Entries are addressed
// by name; when several share a name the first one is used.
type IngredientService struct {
	rooms repository.RoomRepository
	log   *slog.Logger
}

func NewIngredientService(rooms repository.RoomRepository, log *slog.Logger) *IngredientService {
	if log == nil {
		log = slog.Default()
	}
	return &IngredientService{rooms: rooms, log: log}
}

func (s *IngredientService) List(ctx context.Context, roomID uuid.UUID) ([]domain.Ingredient, error) {
	const op = "service.ingredient.list"

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return room.Ingredients(), nil
}

func (s *IngredientService) Add(ctx context.Context, roomID uuid.UUID, ingredient domain.Ingredient) (*domain.Room, error) {
	const op = "service.ingredient.add"

	ingredient.Name = strings.TrimSpace(ingredient.Name)
	if ingredient.Name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidIngredient)
	}

	room, err := mutateRoom(ctx, s.rooms, roomID, op, func(room *domain.Room) (bool, error) {
		room.Food = append(room.Food, domain.FoodEntryFromIngredient(ingredient))
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("ingredient added",
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
		slog.String("name", ingredient.Name),
	)
	return room, nil
}

// Update replaces the first entry called name. The replacement may carry a
// new name.
func (s *IngredientService) Update(ctx context.Context, roomID uuid.UUID, name string, ingredient domain.Ingredient) (*domain.Room, error) {
	const op = "service.ingredient.update"

	ingredient.Name = strings.TrimSpace(ingredient.Name)
	if ingredient.Name == "" {
		ingredient.Name = name
	}

	room, err := mutateRoom(ctx, s.rooms, roomID, op, func(room *domain.Room) (bool, error) {
		idx := indexOfFood(room.Food, name)
		if idx < 0 {
			return false, ErrIngredientNotFound
		}
		room.Food[idx] = domain.FoodEntryFromIngredient(ingredient)
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("ingredient updated",
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
		slog.String("name", name),
	)
	return room, nil
}

// Delete removes the first entry called name.
func (s *IngredientService) Delete(ctx context.Context, roomID uuid.UUID, name string) (*domain.Room, error) {
	const op = "service.ingredient.delete"

	room, err := mutateRoom(ctx, s.rooms, roomID, op, func(room *domain.Room) (bool, error) {
		idx := indexOfFood(room.Food, name)
		if idx < 0 {
			return false, ErrIngredientNotFound
		}
		room.Food = append(room.Food[:idx], room.Food[idx+1:]...)
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("ingredient deleted",
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
		slog.String("name", name),
	)
	return room, nil
}

func indexOfFood(food []domain.FoodEntry, name string) int {
	for i, entry := range food {
		if _, ok := entry[name]; ok {
			return i
		}
	}
	return -1
}
