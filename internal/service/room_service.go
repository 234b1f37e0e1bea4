package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository"
	"github.com/immxrtalbeast/hotpot_room/lib/logger/sl"
)

type RoomService struct {
	rooms repository.RoomRepository
	users repository.UserRepository
	log   *slog.Logger
}

func NewRoomService(rooms repository.RoomRepository, users repository.UserRepository, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		rooms: rooms,
		users: users,
		log:   log,
	}
}

// CreateRoom opens a new room hosted by userID. The room and the user's
// back-reference are written separately; if the second write fails the room
// is left without its host and the user can recover by joining it.
func (s *RoomService) CreateRoom(ctx context.Context, userID uuid.UUID) (*domain.Room, error) {
	const op = "service.room.create"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.ensureNotInOtherRoom(ctx, user, uuid.Nil); err != nil {
		log.Info("user already in a room", slog.String("room_id", user.RoomID.String()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	room := domain.NewRoom(user.ID)
	if err := s.rooms.Create(ctx, room); err != nil {
		log.Error("failed to create room", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.SetRoom(ctx, user.ID, user.RoomID, &room.ID); err != nil {
		if errors.Is(err, repository.ErrRoomReferenceChanged) {
			log.Info("user moved to another room meanwhile", slog.String("room_id", room.ID.String()))
			s.withdraw(ctx, room.ID, user.ID, op)
			return nil, fmt.Errorf("%s: %w", op, domain.ErrAlreadyInRoom)
		}
		log.Error("room created but user back-reference not written",
			slog.String("room_id", room.ID.String()),
			sl.Err(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("room created", slog.String("room_id", room.ID.String()))
	return room, nil
}

// JoinRoom adds userID to the room. Joining a room the user is already in
// is a no-op; joining an inactive room reactivates it.
func (s *RoomService) JoinRoom(ctx context.Context, userID uuid.UUID, roomID uuid.UUID) (*domain.Room, error) {
	const op = "service.room.join"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("room_id", roomID.String()),
	)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.ensureNotInOtherRoom(ctx, user, roomID); err != nil {
		log.Info("user already in another room", slog.String("current_room_id", user.RoomID.String()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var added bool
	room, err := mutateRoom(ctx, s.rooms, roomID, op, func(room *domain.Room) (bool, error) {
		added = room.AddMember(user.ID)
		changed := added
		if !room.IsActive {
			room.IsActive = true
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		log.Warn("failed to join room", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// A concurrent join elsewhere may have passed the same membership check;
	// the back-reference write decides which one stands.
	if !user.InRoom(room.ID) {
		if err := s.users.SetRoom(ctx, user.ID, user.RoomID, &room.ID); err != nil {
			if errors.Is(err, repository.ErrRoomReferenceChanged) {
				log.Info("user moved to another room meanwhile")
				if added {
					s.withdraw(ctx, room.ID, user.ID, op)
				}
				return nil, fmt.Errorf("%s: %w", op, domain.ErrAlreadyInRoom)
			}
			log.Error("member added but user back-reference not written", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("user joined room", slog.Int("members", len(room.Members)))
	return room, nil
}

// LeaveRoom removes userID from its current room and clears the
// back-reference. The room is deactivated once its last member leaves.
func (s *RoomService) LeaveRoom(ctx context.Context, userID uuid.UUID) error {
	const op = "service.room.leave"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.RoomID == nil {
		return fmt.Errorf("%s: %w", op, domain.ErrNotInRoom)
	}
	roomID := *user.RoomID
	log = log.With(slog.String("room_id", roomID.String()))

	room, err := mutateRoom(ctx, s.rooms, roomID, op, func(room *domain.Room) (bool, error) {
		if !room.RemoveMember(user.ID) {
			return false, domain.ErrNotInRoom
		}
		return true, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			err = domain.ErrNotInRoom
		}
		log.Info("failed to leave room", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	// A reference that changed meanwhile already points at a newer room.
	err = s.users.SetRoom(ctx, user.ID, &roomID, nil)
	if err != nil && !errors.Is(err, repository.ErrRoomReferenceChanged) {
		log.Error("member removed but user back-reference not cleared", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user left room",
		slog.Int("members", len(room.Members)),
		slog.Bool("active", room.IsActive),
	)
	return nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	const op = "service.room.get"

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return room, nil
}

// ListMembers returns the users of a room in join order. Members whose user
// record is gone are skipped.
func (s *RoomService) ListMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.User, error) {
	const op = "service.room.list_members"
	log := s.log.With(
		slog.String("op", op),
		slog.String("room_id", roomID.String()),
	)

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	users := make([]*domain.User, 0, len(room.Members))
	for _, memberID := range room.Members {
		user, err := s.users.GetByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				log.Warn("member without user record", slog.String("user_id", memberID.String()))
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, user)
	}

	return users, nil
}

// withdraw removes a membership whose back-reference write lost to a
// concurrent room change.
func (s *RoomService) withdraw(ctx context.Context, roomID, userID uuid.UUID, op string) {
	_, err := mutateRoom(ctx, s.rooms, roomID, op, func(room *domain.Room) (bool, error) {
		return room.RemoveMember(userID), nil
	})
	if err != nil {
		s.log.Error("failed to withdraw member",
			slog.String("op", op),
			slog.String("room_id", roomID.String()),
			slog.String("user_id", userID.String()),
			sl.Err(err),
		)
	}
}

// ensureNotInOtherRoom fails when the user is a listed member of an active
// room other than allowed. A back-reference to a missing or inactive room,
// or to a room that does not list the user, is stale and ignored.
func (s *RoomService) ensureNotInOtherRoom(ctx context.Context, user *domain.User, allowed uuid.UUID) error {
	if user.RoomID == nil || *user.RoomID == allowed {
		return nil
	}

	current, err := s.rooms.GetByID(ctx, *user.RoomID)
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return nil
	case err != nil:
		return err
	}

	if current.IsActive && current.HasMember(user.ID) {
		return domain.ErrAlreadyInRoom
	}
	return nil
}
