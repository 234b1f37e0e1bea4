// Package document holds the persisted JSON layout of rooms and users and a
// validating codec for it. Decoding fails closed: a document missing a
// required field is an error, never a zero-valued entity.
package document

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
)

var ErrInvalidDocument = errors.New("invalid document")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Room is the stored room document.
type Room struct {
	CreatedAt *time.Time         `json:"createdAt" validate:"required"`
	IsActive  *bool              `json:"isActive" validate:"required"`
	Members   []string           `json:"members" validate:"required,unique,dive,uuid"`
	Food      []domain.FoodEntry `json:"food"`
}

// User is the stored user document.
type User struct {
	Email       string  `json:"email" validate:"required,email"`
	Preferences string  `json:"preferences"`
	Gender      string  `json:"gender,omitempty"`
	Room        *string `json:"room" validate:"omitempty,uuid"`
}

func EncodeRoom(room *domain.Room) ([]byte, error) {
	if room == nil {
		return nil, errors.New("room is nil")
	}
	createdAt := room.CreatedAt.UTC()
	active := room.IsActive
	members := make([]string, 0, len(room.Members))
	for _, m := range room.Members {
		members = append(members, m.String())
	}
	food := room.Food
	if food == nil {
		food = []domain.FoodEntry{}
	}
	return json.Marshal(Room{
		CreatedAt: &createdAt,
		IsActive:  &active,
		Members:   members,
		Food:      food,
	})
}

// DecodeRoom parses and validates a room document. id and revision live
// outside the document body.
func DecodeRoom(id uuid.UUID, revision int64, data []byte) (*domain.Room, error) {
	var doc Room
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: room %s: %v", ErrInvalidDocument, id, err)
	}
	if err := validatorInstance().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: room %s: %s", ErrInvalidDocument, id, describe(err))
	}

	members := make([]uuid.UUID, 0, len(doc.Members))
	for _, m := range doc.Members {
		memberID, err := uuid.Parse(m)
		if err != nil {
			return nil, fmt.Errorf("%w: room %s: member %q: %v", ErrInvalidDocument, id, m, err)
		}
		members = append(members, memberID)
	}
	food := doc.Food
	if food == nil {
		food = []domain.FoodEntry{}
	}

	return &domain.Room{
		ID:        id,
		CreatedAt: doc.CreatedAt.UTC(),
		IsActive:  *doc.IsActive,
		Members:   members,
		Food:      food,
		Revision:  revision,
	}, nil
}

func EncodeUser(user *domain.User) ([]byte, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	doc := User{
		Email:       user.Email,
		Preferences: user.Preferences,
		Gender:      user.Gender,
	}
	if user.RoomID != nil {
		room := user.RoomID.String()
		doc.Room = &room
	}
	return json.Marshal(doc)
}

// DecodeUser parses and validates a user document. Timestamps come from the
// storage row.
func DecodeUser(id uuid.UUID, createdAt, updatedAt time.Time, data []byte) (*domain.User, error) {
	var doc User
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: user %s: %v", ErrInvalidDocument, id, err)
	}
	if err := validatorInstance().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: user %s: %s", ErrInvalidDocument, id, describe(err))
	}

	user := &domain.User{
		ID:          id,
		Email:       doc.Email,
		Preferences: doc.Preferences,
		Gender:      doc.Gender,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   updatedAt.UTC(),
	}
	if doc.Room != nil {
		roomID, err := uuid.Parse(*doc.Room)
		if err != nil {
			return nil, fmt.Errorf("%w: user %s: room: %v", ErrInvalidDocument, id, err)
		}
		user.RoomID = &roomID
	}
	return user, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
