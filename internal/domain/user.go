package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a planner profile that can join one room at a time.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Preferences string     `json:"preferences"`
	Gender      string     `json:"gender,omitempty"`
	RoomID      *uuid.UUID `json:"room,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewUser(email string, preferences string, gender string) *User {
	now := time.Now().UTC()
	return &User{
		ID:          uuid.New(),
		Email:       email,
		Preferences: preferences,
		Gender:      gender,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// InRoom reports whether the user's back-reference points at roomID.
func (u *User) InRoom(roomID uuid.UUID) bool {
	return u.RoomID != nil && *u.RoomID == roomID
}

func (u *User) SetRoom(roomID uuid.UUID) {
	id := roomID
	u.RoomID = &id
	u.UpdatedAt = time.Now().UTC()
}

func (u *User) ClearRoom() {
	u.RoomID = nil
	u.UpdatedAt = time.Now().UTC()
}
