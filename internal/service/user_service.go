package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

type UserService struct {
	users repository.UserRepository
	log   *slog.Logger
}

func NewUserService(users repository.UserRepository, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{users: users, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, email string, preferences string, gender string) (*domain.User, error) {
	const op = "service.user.create"
	log := s.log.With(slog.String("op", op))

	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailRequired)
	}

	user := domain.NewUser(email, strings.TrimSpace(preferences), strings.TrimSpace(gender))
	if err := s.users.Create(ctx, user); err != nil {
		log.Info("failed to create user", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "service.user.get"

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdatePreferences replaces the user's free-text food preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, id uuid.UUID, preferences string) (*domain.User, error) {
	const op = "service.user.update_preferences"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", id.String()),
	)

	user, err := s.users.UpdatePreferences(ctx, id, strings.TrimSpace(preferences))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("preferences updated")
	return user, nil
}
