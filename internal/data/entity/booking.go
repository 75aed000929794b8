package entity

import (
	"time"

	"github.com/google/uuid"
)

// Booking reserves one seat of one screening for one user.
// (screening_id, seat_number) is unique.
type Booking struct {
	BaseSimple
	UserID      uuid.UUID `db:"user_id"`
	ScreeningID uuid.UUID `db:"screening_id"`
	SeatNumber  int       `db:"seat_number"`
}

// BookingDetail is a booking joined with its screening for history listings.
type BookingDetail struct {
	Booking
	MovieTitle string
	CinemaName string
	HallName   string
	StartsAt   time.Time
	Price      float64
}
