package usecase

import (
	"cinebook/internal/data/entity"

	"go.uber.org/zap"
)

const SeatsPerRow = 10

// BuildSeatChart lays totalSeats out in rows of SeatsPerRow, dropping any
// partial last row, and marks the booked seats. Booked seat numbers outside
// the grid are logged and skipped.
func BuildSeatChart(totalSeats int, bookedSeats []int, log *zap.Logger) entity.SeatChart {
	rows := 0
	if totalSeats > 0 {
		rows = totalSeats / SeatsPerRow
	}

	chart := make(entity.SeatChart, rows)
	for r := range chart {
		chart[r] = make([]entity.SeatEntry, SeatsPerRow)
		for c := range chart[r] {
			chart[r][c] = entity.SeatEntry{
				SeatNumber: r*SeatsPerRow + c + 1,
				Status:     entity.SeatAvailable,
			}
		}
	}

	for _, seat := range bookedSeats {
		row := (seat - 1) / SeatsPerRow
		col := (seat - 1) % SeatsPerRow
		if seat < 1 || row >= rows {
			log.Warn("Invalid seat number",
				zap.Int("seat_number", seat),
				zap.Int("row", row),
				zap.Int("col", col),
				zap.Int("total_seats", totalSeats),
			)
			continue
		}
		chart[row][col].Status = entity.SeatBooked
	}

	return chart
}
