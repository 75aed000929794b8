package usecase

import (
	"cinebook/internal/data/repository"
	"cinebook/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Movie   MovieService
	Cinema  CinemaService
	Booking BookingService
}

// NewService builds every service. receipts may be nil when mail is not configured.
func NewService(repo *repository.Repository, config *utils.Config, receipts ReceiptSender, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo, log),
		Movie:   NewMovieService(repo, log),
		Cinema:  NewCinemaService(repo, log),
		Booking: NewBookingService(repo, config.Checkout, receipts, log),
	}
}
