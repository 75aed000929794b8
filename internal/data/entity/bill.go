package entity

import (
	"time"

	"github.com/google/uuid"
)

// BillDetail summarises one committed checkout. BookingIDs, SeatNumbers and
// Prices are parallel: index i describes the i-th seat booked.
type BillDetail struct {
	CheckoutID    uuid.UUID   `json:"checkout_id"`
	UserID        uuid.UUID   `json:"user_id"`
	UserName      string      `json:"user_name"`
	UserEmail     string      `json:"user_email"`
	ScreeningID   uuid.UUID   `json:"screening_id"`
	CinemaName    string      `json:"cinema_name"`
	HallName      string      `json:"hall_name"`
	MovieName     string      `json:"movie_name"`
	ScreeningTime time.Time   `json:"screening_time"`
	BookingIDs    []uuid.UUID `json:"booking_ids"`
	SeatNumbers   []int       `json:"seat_numbers"`
	Prices        []float64   `json:"prices"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Add appends one booked seat to the bill.
func (b *BillDetail) Add(bookingID uuid.UUID, seatNumber int, price float64) {
	b.BookingIDs = append(b.BookingIDs, bookingID)
	b.SeatNumbers = append(b.SeatNumbers, seatNumber)
	b.Prices = append(b.Prices, price)
}

func (b *BillDetail) Total() float64 {
	var sum float64
	for _, p := range b.Prices {
		sum += p
	}
	return sum
}
