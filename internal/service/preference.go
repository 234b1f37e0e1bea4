package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
)

const preferenceSeparator = " Also, "

type PreferenceAggregator struct {
	users repository.UserRepository
}

func NewPreferenceAggregator(users repository.UserRepository) *PreferenceAggregator {
	return &PreferenceAggregator{users: users}
}

// Aggregate joins the preferences of every member in member order. Members
// without a user record or without preferences contribute nothing, so the
// result may be empty.
func (a *PreferenceAggregator) Aggregate(ctx context.Context, room *domain.Room) (string, error) {
	const op = "service.preference.aggregate"

	parts := make([]string, 0, len(room.Members))
	for _, memberID := range room.Members {
		user, err := a.users.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				continue
			}
			return "", fmt.Errorf("%s: %w", op, err)
		}
		if p := strings.TrimSpace(user.Preferences); p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, preferenceSeparator), nil
}
