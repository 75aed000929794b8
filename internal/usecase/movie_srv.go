package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinebook/internal/data/entity"
	"cinebook/internal/data/repository"
	"cinebook/internal/dto/request"
	"cinebook/internal/dto/response"
	"cinebook/pkg/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const (
	homeMovieLimit   = 6
	searchMovieLimit = 50
	maxSlugAttempts  = 20
)

type MovieService interface {
	GetCurrentMovies(ctx context.Context) ([]response.MovieResponse, error)
	GetMovies(ctx context.Context, req *request.PaginatedRequest, releaseStatus *string) (*response.PaginatedResponse[response.MovieResponse], error)
	// GetMovieByID includes the viewer's favorite flag when viewer is not nil.
	GetMovieByID(ctx context.Context, movieID string, viewer *uuid.UUID) (*response.MovieDetailResponse, error)
	GetMovieBySlug(ctx context.Context, movieSlug string) (*response.MovieDetailResponse, error)
	SearchMovies(ctx context.Context, query string) ([]response.MovieResponse, error)

	ToggleFavorite(ctx context.Context, userID uuid.UUID, movieID string) (*response.FavoriteToggleResponse, error)
	GetFavorites(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error)

	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error

	// PromoteReleasedMovies flips coming-soon movies released by now to now-playing.
	PromoteReleasedMovies(ctx context.Context) (int64, error)
}

type movieService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetCurrentMovies(ctx context.Context) ([]response.MovieResponse, error) {
	movies, err := s.repo.Movie.FindCurrent(ctx, homeMovieLimit)
	if err != nil {
		return nil, fmt.Errorf("get current movies: %w", err)
	}
	return response.MoviesToResponse(movies), nil
}

func (s *movieService) GetMovies(ctx context.Context, req *request.PaginatedRequest, releaseStatus *string) (*response.PaginatedResponse[response.MovieResponse], error) {
	if releaseStatus != nil && *releaseStatus != "" {
		if _, err := parseReleaseStatus(*releaseStatus); err != nil {
			return nil, err
		}
	}

	movies, err := s.repo.Movie.FindAll(ctx, req.Limit(), req.Offset(), releaseStatus)
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx, releaseStatus)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	return response.NewPaginatedResponse(response.MoviesToResponse(movies), req.Page, req.Limit(), total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string, viewer *uuid.UUID) (*response.MovieDetailResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	detail, err := s.movieDetail(ctx, movie)
	if err != nil {
		return nil, err
	}

	if viewer != nil {
		favorite, err := s.repo.Favorite.Exists(ctx, *viewer, movie.ID)
		if err != nil {
			return nil, fmt.Errorf("check favorite: %w", err)
		}
		detail.IsFavorite = &favorite
	}

	return detail, nil
}

func (s *movieService) GetMovieBySlug(ctx context.Context, movieSlug string) (*response.MovieDetailResponse, error) {
	movie, err := s.repo.Movie.FindBySlug(ctx, movieSlug)
	if err != nil {
		return nil, fmt.Errorf("get movie by slug: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie")
	}
	return s.movieDetail(ctx, movie)
}

// SearchMovies returns an empty list for a blank query.
func (s *movieService) SearchMovies(ctx context.Context, query string) ([]response.MovieResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []response.MovieResponse{}, nil
	}

	movies, err := s.repo.Movie.SearchByTitle(ctx, query, searchMovieLimit)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return response.MoviesToResponse(movies), nil
}

func (s *movieService) ToggleFavorite(ctx context.Context, userID uuid.UUID, movieID string) (*response.FavoriteToggleResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	var favorite bool
	err = s.repo.Tx.WithTx(ctx, func(ctx context.Context) error {
		removed, err := s.repo.Favorite.Remove(ctx, userID, movie.ID)
		if err != nil {
			return err
		}
		if removed {
			favorite = false
			return nil
		}

		favorite = true
		return s.repo.Favorite.Add(ctx, &entity.Favorite{
			UserID:    userID,
			MovieID:   movie.ID,
			CreatedAt: s.now(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}

	s.log.Info("Favorite toggled",
		zap.String("user_id", userID.String()),
		zap.String("movie_id", movie.ID.String()),
		zap.Bool("favorite", favorite),
	)

	return &response.FavoriteToggleResponse{
		MovieID:  movie.ID.String(),
		Favorite: favorite,
	}, nil
}

func (s *movieService) GetFavorites(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	movies, err := s.repo.Favorite.FindMoviesByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get favorites: %w", err)
	}

	total, err := s.repo.Favorite.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}

	return response.NewPaginatedResponse(response.MoviesToResponse(movies), req.Page, req.Limit(), total), nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return nil, validationError("invalid release date %q", req.ReleaseDate)
	}

	releaseStatus, err := parseReleaseStatus(req.ReleaseStatus)
	if err != nil {
		return nil, err
	}

	movieSlug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	now := s.now()
	movie := &entity.Movie{
		Base:              entity.NewBase(now),
		Title:             strings.TrimSpace(req.Title),
		Slug:              movieSlug,
		Description:       req.Description,
		PosterURL:         req.PosterURL,
		Rating:            req.Rating,
		ReleaseDate:       releaseDate,
		DurationInMinutes: req.DurationInMinutes,
		ReleaseStatus:     releaseStatus,
	}
	if movie.PromoteIfReleased(now) {
		s.log.Debug("Release date already passed, storing movie as now playing", zap.String("slug", movie.Slug))
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("movie slug %s %w", movieSlug, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("slug", movie.Slug),
	)

	movieResp := response.MovieToResponse(movie)
	return &movieResp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != movie.Title {
		movie.Title = strings.TrimSpace(*req.Title)
		if movie.Slug, err = s.uniqueSlug(ctx, movie.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		movie.Description = req.Description
	}
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
	}
	if req.Rating != nil {
		movie.Rating = *req.Rating
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			return nil, validationError("invalid release date %q", *req.ReleaseDate)
		}
		movie.ReleaseDate = releaseDate
	}
	if req.DurationInMinutes != nil {
		movie.DurationInMinutes = *req.DurationInMinutes
	}
	if req.ReleaseStatus != nil {
		if movie.ReleaseStatus, err = parseReleaseStatus(*req.ReleaseStatus); err != nil {
			return nil, err
		}
	}
	movie.UpdatedAt = s.now()
	movie.PromoteIfReleased(movie.UpdatedAt)

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("movie")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, fmt.Errorf("movie slug %s %w", movie.Slug, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated", zap.String("movie_id", movie.ID.String()))

	movieResp := response.MovieToResponse(movie)
	return &movieResp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return notFound("movie")
	}

	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("movie")
		}
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}

func (s *movieService) PromoteReleasedMovies(ctx context.Context) (int64, error) {
	promoted, err := s.repo.Movie.PromoteReleased(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if promoted > 0 {
		s.log.Info("Movies moved to now playing", zap.Int64("count", promoted))
	}
	return promoted, nil
}

// ==================== HELPER METHODS ====================

func (s *movieService) findMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, notFound("movie")
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie")
	}
	return movie, nil
}

func (s *movieService) movieDetail(ctx context.Context, movie *entity.Movie) (*response.MovieDetailResponse, error) {
	screenings, err := s.repo.Screening.FindDetailsByMovieID(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("get screenings: %w", err)
	}
	detail := response.MovieToDetailResponse(movie, screenings)
	return &detail, nil
}

// uniqueSlug derives a slug from the title, suffixing -2, -3... while taken.
func (s *movieService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "movie"
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		taken, err := s.repo.Movie.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}

	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

func parseReleaseStatus(status string) (entity.ReleaseStatus, error) {
	switch entity.ReleaseStatus(status) {
	case entity.ReleaseStatusNowPlaying, entity.ReleaseStatusComingSoon:
		return entity.ReleaseStatus(status), nil
	default:
		return "", validationError("invalid release status %q", status)
	}
}
