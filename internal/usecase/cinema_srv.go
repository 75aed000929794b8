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
	"go.uber.org/zap"
)

type CinemaService interface {
	GetCinemas(ctx context.Context, req *request.PaginatedRequest, cityFilter *string) (*response.PaginatedResponse[response.CinemaResponse], error)
	GetCinemaByID(ctx context.Context, cinemaID string) (*response.CinemaDetailResponse, error)
	GetScreening(ctx context.Context, screeningID string) (*response.ScreeningResponse, error)

	CreateCinema(ctx context.Context, req *request.CinemaRequest) (*response.CinemaResponse, error)
	CreateHall(ctx context.Context, cinemaID string, req *request.HallRequest) (*response.HallResponse, error)
	CreateScreening(ctx context.Context, req *request.ScreeningRequest) (*response.ScreeningResponse, error)
}

type cinemaService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCinemaService(repo *repository.Repository, log *zap.Logger) CinemaService {
	return &cinemaService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "cinema")),
	}
}

func (s *cinemaService) GetCinemas(ctx context.Context, req *request.PaginatedRequest, cityFilter *string) (*response.PaginatedResponse[response.CinemaResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	cinemas, err := s.repo.Cinema.FindAll(ctx, limit, offset, cityFilter)
	if err != nil {
		s.log.Error("Failed to get cinemas from repository",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", limit),
			zap.Stringp("city_filter", cityFilter),
		)
		return nil, fmt.Errorf("get cinemas: %w", err)
	}

	total, err := s.repo.Cinema.CountAll(ctx, cityFilter)
	if err != nil {
		return nil, fmt.Errorf("count cinemas: %w", err)
	}

	cinemaResponses := make([]response.CinemaResponse, len(cinemas))
	for i, cinema := range cinemas {
		cinemaResponses[i] = response.CinemaToResponse(cinema)
	}

	s.log.Debug("Cinemas retrieved",
		zap.Int("count", len(cinemas)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(cinemaResponses, req.Page, limit, total), nil
}

func (s *cinemaService) GetCinemaByID(ctx context.Context, cinemaID string) (*response.CinemaDetailResponse, error) {
	cinema, err := s.findCinema(ctx, cinemaID)
	if err != nil {
		return nil, err
	}

	halls, err := s.repo.Hall.FindByCinemaID(ctx, cinema.ID)
	if err != nil {
		return nil, fmt.Errorf("get halls: %w", err)
	}

	detail := response.CinemaToDetailResponse(cinema, halls)
	return &detail, nil
}

func (s *cinemaService) GetScreening(ctx context.Context, screeningID string) (*response.ScreeningResponse, error) {
	id, err := uuid.Parse(screeningID)
	if err != nil {
		return nil, notFound("screening")
	}

	screening, err := s.repo.Screening.FindDetailByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get screening: %w", err)
	}
	if screening == nil {
		return nil, notFound("screening")
	}

	resp := response.ScreeningToResponse(screening)
	return &resp, nil
}

func (s *cinemaService) CreateCinema(ctx context.Context, req *request.CinemaRequest) (*response.CinemaResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create cinema validation failed", zap.Any("errors", errs))
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	cinema := &entity.Cinema{
		BaseNoDelete: entity.NewBaseNoDelete(s.now()),
		Name:     strings.TrimSpace(req.Name),
		Location: strings.TrimSpace(req.Location),
		City:     strings.TrimSpace(req.City),
	}

	if err := s.repo.Cinema.Create(ctx, cinema); err != nil {
		s.log.Error("Failed to create cinema", zap.Error(err), zap.String("name", cinema.Name))
		return nil, fmt.Errorf("create cinema: %w", err)
	}

	s.log.Info("Cinema created",
		zap.String("cinema_id", cinema.ID.String()),
		zap.String("name", cinema.Name),
		zap.String("city", cinema.City),
	)

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) CreateHall(ctx context.Context, cinemaID string, req *request.HallRequest) (*response.HallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	cinema, err := s.findCinema(ctx, cinemaID)
	if err != nil {
		return nil, err
	}

	hall := &entity.Hall{
		BaseNoDelete: entity.NewBaseNoDelete(s.now()),
		CinemaID: cinema.ID,
		Name:     strings.TrimSpace(req.Name),
		Size:     req.Size,
	}

	if err := s.repo.Hall.Create(ctx, hall); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("hall %q %w in cinema", hall.Name, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create hall: %w", err)
	}

	if hall.Size%SeatsPerRow != 0 {
		s.log.Warn("Hall size is not a multiple of the row width, trailing seats are not bookable",
			zap.String("hall_id", hall.ID.String()),
			zap.Int("size", hall.Size),
			zap.Int("bookable", (hall.Size/SeatsPerRow)*SeatsPerRow),
		)
	}

	s.log.Info("Hall created",
		zap.String("hall_id", hall.ID.String()),
		zap.String("cinema_id", cinema.ID.String()),
		zap.Int("size", hall.Size),
	)

	resp := response.HallToResponse(hall)
	return &resp, nil
}

func (s *cinemaService) CreateScreening(ctx context.Context, req *request.ScreeningRequest) (*response.ScreeningResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError("%s", utils.FormatValidationErrors(errs))
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, validationError("invalid starts_at %q", req.StartsAt)
	}

	movieID, _ := uuid.Parse(req.MovieID)
	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie")
	}

	cinema, err := s.findCinema(ctx, req.CinemaID)
	if err != nil {
		return nil, err
	}

	hallID, _ := uuid.Parse(req.HallID)
	hall, err := s.repo.Hall.FindByID(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("get hall: %w", err)
	}
	if hall == nil {
		return nil, notFound("hall")
	}
	if hall.CinemaID != cinema.ID {
		return nil, validationError("hall %s does not belong to cinema %s", hall.ID, cinema.ID)
	}

	screening := &entity.ScreeningTime{
		BaseNoDelete: entity.NewBaseNoDelete(s.now()),
		MovieID:  movie.ID,
		CinemaID: cinema.ID,
		HallID:   hall.ID,
		StartsAt: startsAt.UTC(),
		Price:    req.Price,
	}

	if err := s.repo.Screening.Create(ctx, screening); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("movie, cinema or hall")
		}
		return nil, fmt.Errorf("create screening: %w", err)
	}

	s.log.Info("Screening created",
		zap.String("screening_id", screening.ID.String()),
		zap.String("movie_id", movie.ID.String()),
		zap.String("hall_id", hall.ID.String()),
		zap.Time("starts_at", screening.StartsAt),
	)

	resp := response.ScreeningToResponse(&entity.ScreeningDetail{
		ScreeningTime: *screening,
		MovieTitle:    movie.Title,
		CinemaName:    cinema.Name,
		HallName:      hall.Name,
		HallSize:      hall.Size,
	})
	return &resp, nil
}

func (s *cinemaService) findCinema(ctx context.Context, cinemaID string) (*entity.Cinema, error) {
	id, err := uuid.Parse(cinemaID)
	if err != nil {
		return nil, notFound("cinema")
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cinema: %w", err)
	}
	if cinema == nil {
		return nil, notFound("cinema")
	}
	return cinema, nil
}
