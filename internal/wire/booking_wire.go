package wire

import (
	"cinebook/internal/adaptor"
	"cinebook/internal/data/repository"
	"cinebook/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// Bill routes are static and win over /book/{screening_id}.
		r.Get("/book/bill/", bookingHandler.GetBill)
		r.Post("/book/bill/", bookingHandler.GetBill)
		r.Get("/book/bill/qr", bookingHandler.GetBillQRCode)

		r.Get("/book/{screening_id}", bookingHandler.GetBookingForm)
		r.Post("/book/{screening_id}", bookingHandler.BookSeats)

		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})
}
