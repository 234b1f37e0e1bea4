package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Room is the shared planning session for one meal.
// Members keeps insertion order; Food keeps insertion order and may hold
// several entries with the same item name.
type Room struct {
	ID        uuid.UUID
	CreatedAt time.Time
	IsActive  bool
	Members   []uuid.UUID
	Food      []FoodEntry
	// Revision is bumped by the store on every successful write and is
	// used as the compare-and-set key for conditional updates.
	Revision int64
}

// NewRoom constructs an active room hosted by the given user.
func NewRoom(host uuid.UUID) *Room {
	return &Room{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		IsActive:  true,
		Members:   []uuid.UUID{host},
		Food:      []FoodEntry{},
	}
}

// HasMember reports whether userID is listed in the room.
func (r *Room) HasMember(userID uuid.UUID) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.Members, userID)
}

// AddMember appends userID unless it is already present. It reports whether
// the member list changed.
func (r *Room) AddMember(userID uuid.UUID) bool {
	if r.HasMember(userID) {
		return false
	}
	r.Members = append(r.Members, userID)
	return true
}

// RemoveMember drops userID from the member list and deactivates the room
// once nobody is left. It reports whether the member list changed.
func (r *Room) RemoveMember(userID uuid.UUID) bool {
	idx := slices.Index(r.Members, userID)
	if idx < 0 {
		return false
	}
	r.Members = slices.Delete(r.Members, idx, idx+1)
	if len(r.Members) == 0 {
		r.IsActive = false
	}
	return true
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Members = slices.Clone(r.Members)
	c.Food = make([]FoodEntry, 0, len(r.Food))
	for _, entry := range r.Food {
		c.Food = append(c.Food, entry.Clone())
	}
	return &c
}

// Ingredients returns the normalized view of the room's food list.
func (r *Room) Ingredients() []Ingredient {
	result := make([]Ingredient, 0, len(r.Food))
	for _, entry := range r.Food {
		if ing, ok := entry.Ingredient(); ok {
			result = append(result, ing)
		}
	}
	return result
}
