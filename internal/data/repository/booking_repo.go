package repository

import (
	"context"
	"fmt"

	"cinebook/internal/data/entity"
	"cinebook/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Create fails with ErrDuplicate when the seat is already taken for the screening.
	Create(ctx context.Context, booking *entity.Booking) error
	ExistsBySeat(ctx context.Context, screeningID uuid.UUID, seatNumber int) (bool, error)
	FindSeatNumbersByScreening(ctx context.Context, screeningID uuid.UUID) ([]int, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingDetail, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, screening_id, seat_number, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.ScreeningID,
		booking.SeatNumber,
		booking.CreatedAt,
	)

	if database.IsUniqueViolation(err) {
		return fmt.Errorf("create booking seat %d: %w", booking.SeatNumber, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("screening_id", booking.ScreeningID.String()),
			zap.Int("seat_number", booking.SeatNumber),
		)
		return fmt.Errorf("create booking seat %d: %w", booking.SeatNumber, err)
	}

	return nil
}

func (r *bookingRepository) ExistsBySeat(ctx context.Context, screeningID uuid.UUID, seatNumber int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE screening_id = $1 AND seat_number = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, screeningID, seatNumber).Scan(&exists); err != nil {
		r.log.Error("Failed to check seat",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
			zap.Int("seat_number", seatNumber),
		)
		return false, fmt.Errorf("check seat %d: %w", seatNumber, err)
	}
	return exists, nil
}

func (r *bookingRepository) FindSeatNumbersByScreening(ctx context.Context, screeningID uuid.UUID) ([]int, error) {
	query := `SELECT seat_number FROM bookings WHERE screening_id = $1 ORDER BY seat_number`

	rows, err := r.db.Query(ctx, query, screeningID)
	if err != nil {
		r.log.Error("Failed to find booked seats",
			zap.Error(err),
			zap.String("screening_id", screeningID.String()),
		)
		return nil, fmt.Errorf("find booked seats of screening %s: %w", screeningID.String(), err)
	}
	defer rows.Close()

	var seats []int
	for rows.Next() {
		var seat int
		if err := rows.Scan(&seat); err != nil {
			return nil, fmt.Errorf("scan seat number: %w", err)
		}
		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seat rows: %w", err)
	}
	return seats, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingDetail, error) {
	query := `
		SELECT b.id, b.user_id, b.screening_id, b.seat_number, b.created_at,
		       m.title, c.name, h.name, s.starts_at, s.price
		FROM bookings b
		JOIN screening_times s ON s.id = b.screening_id
		JOIN movies m ON m.id = s.movie_id
		JOIN cinemas c ON c.id = s.cinema_id
		JOIN halls h ON h.id = s.hall_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.seat_number
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.BookingDetail
	for rows.Next() {
		var b entity.BookingDetail
		err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.ScreeningID,
			&b.SeatNumber,
			&b.CreatedAt,
			&b.MovieTitle,
			&b.CinemaName,
			&b.HallName,
			&b.StartsAt,
			&b.Price,
		)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings of user %s: %w", userID.String(), err)
	}
	return total, nil
}
