package wire

import (
	"cinebook/internal/adaptor"
	"cinebook/internal/data/repository"
	"cinebook/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCinema(
	r chi.Router,
	cinemaHandler *adaptor.CinemaHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/cinemas", cinemaHandler.GetCinemas)
	r.Get("/api/cinemas/{id}", cinemaHandler.GetCinemaByID)
	r.Get("/api/screenings/{id}", cinemaHandler.GetScreening)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/admin/cinemas", cinemaHandler.CreateCinema)
		r.Post("/api/admin/cinemas/{id}/halls", cinemaHandler.CreateHall)
		r.Post("/api/admin/screenings", cinemaHandler.CreateScreening)
	})
}
