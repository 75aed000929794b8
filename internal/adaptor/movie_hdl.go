package adaptor

import (
	"net/http"

	"cinebook/internal/dto/request"
	"cinebook/internal/usecase"
	"cinebook/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// Home handles GET /
func (h *MovieHandler) Home(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.GetCurrentMovies(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get current movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	releaseStatus := optionalQuery(r, "release_status")
	if releaseStatus != nil && *releaseStatus == "now" {
		status := "now_playing"
		releaseStatus = &status
	}

	movies, err := h.service.GetMovies(r.Context(), paginationFromQuery(r), releaseStatus)
	if err != nil {
		writeServiceError(w, h.log, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetMovieByID handles GET /movie/{id}. Signed-in callers also get is_favorite.
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	var viewer *uuid.UUID
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		viewer = &userID
	}

	movie, err := h.service.GetMovieByID(r.Context(), chi.URLParam(r, "id"), viewer)
	if err != nil {
		writeServiceError(w, h.log, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// GetMovieBySlug handles GET /api/movies/slug/{slug}
func (h *MovieHandler) GetMovieBySlug(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovieBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, h.log, err, "get movie by slug")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// Search handles GET /search?query=
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.SearchMovies(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeServiceError(w, h.log, err, "search movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// ToggleFavorite handles POST /favorite/{movie_id}
func (h *MovieHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.ToggleFavorite(r.Context(), userID, chi.URLParam(r, "movie_id"))
	if err != nil {
		writeServiceError(w, h.log, err, "toggle favorite")
		return
	}

	message := "Movie removed from favorites"
	if result.Favorite {
		message = "Movie added to favorites"
	}
	utils.ResponseSuccess(w, message, result)
}

// GetFavorites handles GET /api/user/favorites
func (h *MovieHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	movies, err := h.service.GetFavorites(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, h.log, err, "get favorites")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// CreateMovie handles POST /api/admin/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created successfully", movie)
}

// UpdateMovie handles PUT /api/admin/movies/{id}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "Movie updated successfully", movie)
}

// DeleteMovie handles DELETE /api/admin/movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "Movie deleted successfully", nil)
}
