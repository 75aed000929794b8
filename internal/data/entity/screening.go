package entity

import (
	"time"

	"github.com/google/uuid"
)

type ScreeningTime struct {
	BaseNoDelete
	MovieID  uuid.UUID `db:"movie_id"`
	CinemaID uuid.UUID `db:"cinema_id"`
	HallID   uuid.UUID `db:"hall_id"`
	StartsAt time.Time `db:"starts_at"`
	Price    float64   `db:"price"`
}

// ScreeningDetail is a screening joined with the names and hall size shown to users.
type ScreeningDetail struct {
	ScreeningTime
	MovieTitle string
	CinemaName string
	HallName   string
	HallSize   int
}
