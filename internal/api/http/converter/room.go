package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
)

type RoomResponse struct {
	ID          uuid.UUID           `json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	IsActive    bool                `json:"is_active"`
	Members     []uuid.UUID         `json:"members"`
	Ingredients []domain.Ingredient `json:"ingredients"`
	Revision    int64               `json:"revision"`
}

func RoomToApi(r *domain.Room) *RoomResponse {
	members := r.Members
	if members == nil {
		members = []uuid.UUID{}
	}
	return &RoomResponse{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		IsActive:    r.IsActive,
		Members:     members,
		Ingredients: r.Ingredients(),
		Revision:    r.Revision,
	}
}

type MemberResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Preferences string    `json:"preferences"`
	Gender      string    `json:"gender,omitempty"`
}

func MembersToApi(users []*domain.User) []MemberResponse {
	members := make([]MemberResponse, 0, len(users))
	for _, u := range users {
		members = append(members, MemberResponse{
			ID:          u.ID,
			Email:       u.Email,
			Preferences: u.Preferences,
			Gender:      u.Gender,
		})
	}
	return members
}

// IngredientRequest is the editable shape of one ingredient.
type IngredientRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price" binding:"min=0"`
	Weight      string  `json:"weight"`
	ImageURL    string  `json:"img_url"`
	StoreURL    string  `json:"store_url"`
	CookSeconds *int    `json:"cook_seconds" binding:"omitempty,min=0"`
}

func IngredientFromApi(req IngredientRequest) domain.Ingredient {
	return domain.Ingredient{
		Name:        req.Name,
		Price:       req.Price,
		Weight:      req.Weight,
		ImageURL:    req.ImageURL,
		StoreURL:    req.StoreURL,
		CookSeconds: req.CookSeconds,
	}
}
