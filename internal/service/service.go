package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
)

var (
	// ErrConcurrentUpdate is returned when a room write keeps losing the
	// compare-and-set race.
	ErrConcurrentUpdate   = errors.New("room is being updated concurrently, try again")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInvalidIngredient  = errors.New("ingredient name is required")
	ErrEmailRequired      = errors.New("email is required")
)

type RoomInteractor interface {
	CreateRoom(ctx context.Context, userID uuid.UUID) (*domain.Room, error)
	JoinRoom(ctx context.Context, userID uuid.UUID, roomID uuid.UUID) (*domain.Room, error)
	LeaveRoom(ctx context.Context, userID uuid.UUID) error
	GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error)
	ListMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.User, error)
}

type UserInteractor interface {
	CreateUser(ctx context.Context, email string, preferences string, gender string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, preferences string) (*domain.User, error)
}

type IngredientInteractor interface {
	List(ctx context.Context, roomID uuid.UUID) ([]domain.Ingredient, error)
	Add(ctx context.Context, roomID uuid.UUID, ingredient domain.Ingredient) (*domain.Room, error)
	Update(ctx context.Context, roomID uuid.UUID, name string, ingredient domain.Ingredient) (*domain.Room, error)
	Delete(ctx context.Context, roomID uuid.UUID, name string) (*domain.Room, error)
}

type RecommendationInteractor interface {
	Generate(ctx context.Context, roomID uuid.UUID) (*PipelineResult, error)
	Lucky(ctx context.Context, roomID uuid.UUID, item string) (*PipelineResult, error)
}

// Recommender turns preference text into candidates.
type Recommender interface {
	Recommend(ctx context.Context, preferences string) ([]domain.Candidate, error)
	RecommendOne(ctx context.Context, item string) (domain.Candidate, error)
}

// ProductScraper resolves a candidate name into a purchasable product.
type ProductScraper interface {
	Scrape(ctx context.Context, query string, cookSeconds int) (*domain.ProductRecord, error)
	ScrapeLucky(ctx context.Context, query string, cookSeconds int) (*domain.ProductRecord, error)
}
