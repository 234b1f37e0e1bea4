package model

import (
	"time"

	"github.com/google/uuid"
)

// Room keeps the JSON room document alongside the columns needed for
// lookup and compare-and-set.
type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Revision  int64     `gorm:"not null;default:1"`
	IsActive  bool      `gorm:"not null;index"`
	Document  string    `gorm:"type:jsonb;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email     *string    `gorm:"size:255;uniqueIndex:idx_users_email,where:email IS NOT NULL"`
	RoomID    *uuid.UUID `gorm:"type:uuid;index"`
	Document  string     `gorm:"type:jsonb;not null"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}
