package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestIngredientService_AddAndList(t *testing.T) {
	f := newFixture()
	room := f.room(t, uuid.New())
	svc := NewIngredientService(f.rooms, nil)

	_, err := svc.Add(context.Background(), room.ID, domain.Ingredient{
		Name:        "Fish Balls",
		Price:       3.5,
		Weight:      "250 g",
		CookSeconds: intPtr(90),
	})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Fish Balls", list[0].Name)
	assert.Equal(t, 3.5, list[0].Price)
	assert.Equal(t, intPtr(90), list[0].CookSeconds)

	_, err = svc.Add(context.Background(), room.ID, domain.Ingredient{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidIngredient)
}

func TestIngredientService_UpdateTouchesFirstMatchOnly(t *testing.T) {
	f := newFixture()
	room := f.room(t, uuid.New())
	svc := NewIngredientService(f.rooms, nil)
	for range 2 {
		_, err := svc.Add(context.Background(), room.ID, domain.Ingredient{Name: "Tofu", Price: 2})
		require.NoError(t, err)
	}

	updated, err := svc.Update(context.Background(), room.ID, "Tofu", domain.Ingredient{Name: "Silken Tofu", Price: 2.5})
	require.NoError(t, err)

	require.Len(t, updated.Food, 2)
	assert.Equal(t, "Silken Tofu", updated.Food[0].Name())
	assert.Equal(t, "2.5", updated.Food[0]["Silken Tofu"].Price)
	assert.Equal(t, "Tofu", updated.Food[1].Name())
}

func TestIngredientService_UpdateKeepsNameWhenBlank(t *testing.T) {
	f := newFixture()
	room := f.room(t, uuid.New())
	svc := NewIngredientService(f.rooms, nil)
	_, err := svc.Add(context.Background(), room.ID, domain.Ingredient{Name: "Corn", Price: 1})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), room.ID, "Corn", domain.Ingredient{Price: 1.2})
	require.NoError(t, err)
	assert.Equal(t, "1.2", updated.Food[0]["Corn"].Price)
}

func TestIngredientService_Delete(t *testing.T) {
	f := newFixture()
	room := f.room(t, uuid.New())
	svc := NewIngredientService(f.rooms, nil)
	for _, name := range []string{"Corn", "Tofu", "Corn"} {
		_, err := svc.Add(context.Background(), room.ID, domain.Ingredient{Name: name})
		require.NoError(t, err)
	}

	updated, err := svc.Delete(context.Background(), room.ID, "Corn")
	require.NoError(t, err)
	require.Len(t, updated.Food, 2)
	assert.Equal(t, "Tofu", updated.Food[0].Name())
	assert.Equal(t, "Corn", updated.Food[1].Name())

	_, err = svc.Delete(context.Background(), room.ID, "Lamb")
	assert.ErrorIs(t, err, ErrIngredientNotFound)
}
