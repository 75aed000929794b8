package repository

import (
	"context"

	"cinebook/pkg/database"

	"go.uber.org/zap"
)

// Transactor runs fn as one unit of work; repositories called with the
// context passed to fn take part in it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Repository struct {
	Tx        Transactor
	User      UserRepository
	Session   SessionRepository
	Movie     MovieRepository
	Favorite  FavoriteRepository
	Cinema    CinemaRepository
	Hall      HallRepository
	Screening ScreeningRepository
	Booking   BookingRepository
	Bill      BillRepository
}

func NewRepository(db database.PgxIface, bills BillRepository, log *zap.Logger) *Repository {
	return &Repository{
		Tx:        db,
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Movie:     NewMovieRepository(db, log),
		Favorite:  NewFavoriteRepository(db, log),
		Cinema:    NewCinemaRepository(db, log),
		Hall:      NewHallRepository(db, log),
		Screening: NewScreeningRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		Bill:      bills,
	}
}
