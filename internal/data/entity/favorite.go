package entity

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	UserID    uuid.UUID `db:"user_id"`
	MovieID   uuid.UUID `db:"movie_id"`
	CreatedAt time.Time `db:"created_at"`
}
