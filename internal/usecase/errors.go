package usecase

import (
	"errors"
	"fmt"

	"cinebook/internal/dto/response"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidSeat        = errors.New("invalid seat selection")
	ErrSeatAlreadyBooked  = errors.New("seat already booked")
	ErrCheckoutExpired    = errors.New("checkout expired")
	ErrInvalidCheckout    = errors.New("invalid checkout token")
)

// SeatConflictError names the first seat of a submission that was already
// taken. Chart is the seating chart as it stands after the rollback.
type SeatConflictError struct {
	SeatNumber int
	Chart      *response.SeatChartResponse
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seat %d is already booked", e.SeatNumber)
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatAlreadyBooked
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

func seatError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSeat, fmt.Sprintf(format, args...))
}
