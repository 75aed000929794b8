package entity

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
)

// SeatEntry is one cell of a seating chart. It is derived from a hall size
// and the screening's bookings and never stored.
type SeatEntry struct {
	SeatNumber int        `json:"seat_number"`
	Status     SeatStatus `json:"status"`
}

// SeatChart is a row-major grid; row r, column c holds seat r*10+c+1.
type SeatChart [][]SeatEntry

// LastSeat is the highest seat number in the chart, 0 when empty.
func (c SeatChart) LastSeat() int {
	if len(c) == 0 {
		return 0
	}
	row := c[len(c)-1]
	if len(row) == 0 {
		return 0
	}
	return row[len(row)-1].SeatNumber
}
