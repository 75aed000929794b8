package wire

import (
	"cinebook/internal/adaptor"
	"cinebook/internal/data/repository"
	"cinebook/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/", movieHandler.Home)
	r.Get("/api/movies", movieHandler.GetMovies)
	r.Get("/api/movies/slug/{slug}", movieHandler.GetMovieBySlug)
	r.Get("/search", movieHandler.Search)

	// Anonymous callers see the movie; signed-in callers also get is_favorite.
	r.With(middleware.OptionalSession(repo.Session, log)).Get("/movie/{id}", movieHandler.GetMovieByID)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/favorite/{movie_id}", movieHandler.ToggleFavorite)
		r.Get("/api/user/favorites", movieHandler.GetFavorites)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/", movieHandler.CreateMovie)
		r.Put("/{id}", movieHandler.UpdateMovie)
		r.Delete("/{id}", movieHandler.DeleteMovie)
	})
}
