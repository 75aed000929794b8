package usecase

import (
	"strconv"
	"strings"
)

// ParseSeatNumbers turns "1, 2,3" into [1 2 3], keeping submission order.
// Empty pieces are ignored. Every seat must lie in 1..maxSeat and appear once.
func ParseSeatNumbers(input string, maxSeat int) ([]int, error) {
	var seats []int
	seen := make(map[int]struct{})

	for _, piece := range strings.Split(input, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		seat, err := strconv.Atoi(piece)
		if err != nil || seat < 1 {
			return nil, seatError("%q is not a seat number", piece)
		}
		if seat > maxSeat {
			return nil, seatError("seat %d does not exist in this hall", seat)
		}
		if _, dup := seen[seat]; dup {
			return nil, seatError("seat %d is listed more than once", seat)
		}

		seen[seat] = struct{}{}
		seats = append(seats, seat)
	}

	if len(seats) == 0 {
		return nil, seatError("no seats selected")
	}
	return seats, nil
}
