package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/hotpot_room/internal/document"
	"github.com/immxrtalbeast/hotpot_room/internal/domain"
	"github.com/immxrtalbeast/hotpot_room/internal/repository/model"
	"gorm.io/gorm"
)

type PostgresRoomRepository struct {
	db *gorm.DB
}

func NewPostgresRoomRepository(db *gorm.DB) *PostgresRoomRepository {
	return &PostgresRoomRepository{db: db}
}

func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return errors.New("room is nil")
	}

	doc, err := document.EncodeRoom(room)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	roomModel := &model.Room{
		ID:        room.ID,
		Revision:  1,
		IsActive:  room.IsActive,
		Document:  string(doc),
		CreatedAt: room.CreatedAt.UTC(),
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(roomModel).Error; err != nil {
		return err
	}

	room.Revision = 1
	return nil
}

func (r *PostgresRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room model.Room
	err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	return document.DecodeRoom(room.ID, room.Revision, []byte(room.Document))
}

func (r *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if room == nil {
		return errors.New("room is nil")
	}

	doc, err := document.EncodeRoom(room)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Room{}).
			Where("id = ? AND revision = ?", room.ID, room.Revision).
			Updates(map[string]any{
				"document":   string(doc),
				"is_active":  room.IsActive,
				"revision":   room.Revision + 1,
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Room{}).Where("id = ?", room.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrRoomNotFound
			}
			return ErrRevisionConflict
		}

		room.Revision++
		return nil
	})
}

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user == nil {
		return errors.New("user is nil")
	}

	userModel, err := toModelUser(user)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserEmailExists
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return document.DecodeUser(user.ID, user.CreatedAt, user.UpdatedAt, []byte(user.Document))
}

// UpdatePreferences rewrites only the preferences key of the stored
// document.
func (r *PostgresUserRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, preferences string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]any{
		"document":   gorm.Expr("jsonb_set(document, '{preferences}', to_jsonb(?::text))", preferences),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}

// SetRoom moves the back-reference from one room to another. The room_id
// column and the document's room key are written together.
func (r *PostgresUserRepository) SetRoom(ctx context.Context, id uuid.UUID, from, to *uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	updateData := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if to == nil {
		updateData["room_id"] = gorm.Expr("NULL")
		updateData["document"] = gorm.Expr("jsonb_set(document, '{room}', 'null'::jsonb)")
	} else {
		updateData["room_id"] = *to
		updateData["document"] = gorm.Expr("jsonb_set(document, '{room}', to_jsonb(?::text))", to.String())
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&model.User{}).Where("id = ?", id)
		if from == nil {
			query = query.Where("room_id IS NULL")
		} else {
			query = query.Where("room_id = ?", *from)
		}

		res := query.Updates(updateData)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrUserNotFound
			}
			return ErrRoomReferenceChanged
		}
		return nil
	})
}

func toModelUser(user *domain.User) (*model.User, error) {
	doc, err := document.EncodeUser(user)
	if err != nil {
		return nil, err
	}

	var email *string
	if user.Email != "" {
		e := user.Email
		email = &e
	}
	var roomID *uuid.UUID
	if user.RoomID != nil {
		id := *user.RoomID
		roomID = &id
	}

	updatedAt := user.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	return &model.User{
		ID:        user.ID,
		Email:     email,
		RoomID:    roomID,
		Document:  string(doc),
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}
