package repository

import (
	"context"
	"errors"
	"fmt"

	"cinebook/internal/data/entity"
	"cinebook/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ScreeningRepository interface {
	Create(ctx context.Context, screening *entity.ScreeningTime) error
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.ScreeningDetail, error)
	// FindDetailForUpdate is FindDetailByID holding a row lock on the
	// screening until the surrounding transaction ends.
	FindDetailForUpdate(ctx context.Context, id uuid.UUID) (*entity.ScreeningDetail, error)
	FindDetailsByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.ScreeningDetail, error)
}

type screeningRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewScreeningRepository(db database.PgxIface, log *zap.Logger) ScreeningRepository {
	return &screeningRepository{
		db:  db,
		log: log.With(zap.String("repository", "screening")),
	}
}

// screeningDetailSelect hides screenings of soft-deleted movies.
const screeningDetailSelect = `
		SELECT s.id, s.movie_id, s.cinema_id, s.hall_id, s.starts_at, s.price,
		       s.created_at, s.updated_at, m.title, c.name, h.name, h.size
		FROM screening_times s
		JOIN movies m ON m.id = s.movie_id
		JOIN cinemas c ON c.id = s.cinema_id
		JOIN halls h ON h.id = s.hall_id
		WHERE m.deleted_at IS NULL
`

func scanScreeningDetail(row rowScanner) (*entity.ScreeningDetail, error) {
	var d entity.ScreeningDetail
	err := row.Scan(
		&d.ID,
		&d.MovieID,
		&d.CinemaID,
		&d.HallID,
		&d.StartsAt,
		&d.Price,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.MovieTitle,
		&d.CinemaName,
		&d.HallName,
		&d.HallSize,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *screeningRepository) Create(ctx context.Context, screening *entity.ScreeningTime) error {
	query := `
		INSERT INTO screening_times (id, movie_id, cinema_id, hall_id, starts_at, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		screening.ID,
		screening.MovieID,
		screening.CinemaID,
		screening.HallID,
		screening.StartsAt,
		screening.Price,
		screening.CreatedAt,
		screening.UpdatedAt,
	)
	// Movie, cinema or hall removed since the caller looked them up.
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("create screening: %w", ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to create screening",
			zap.Error(err),
			zap.String("movie_id", screening.MovieID.String()),
			zap.String("hall_id", screening.HallID.String()),
		)
		return fmt.Errorf("create screening: %w", err)
	}

	return nil
}

func (r *screeningRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.ScreeningDetail, error) {
	return r.findDetail(ctx, screeningDetailSelect+` AND s.id = $1`, id)
}

func (r *screeningRepository) FindDetailForUpdate(ctx context.Context, id uuid.UUID) (*entity.ScreeningDetail, error) {
	return r.findDetail(ctx, screeningDetailSelect+` AND s.id = $1 FOR UPDATE OF s`, id)
}

func (r *screeningRepository) findDetail(ctx context.Context, query string, id uuid.UUID) (*entity.ScreeningDetail, error) {
	detail, err := scanScreeningDetail(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find screening",
			zap.Error(err),
			zap.String("screening_id", id.String()),
		)
		return nil, fmt.Errorf("find screening %s: %w", id.String(), err)
	}
	return detail, nil
}

func (r *screeningRepository) FindDetailsByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.ScreeningDetail, error) {
	query := screeningDetailSelect + ` AND s.movie_id = $1 ORDER BY s.starts_at, c.name`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find screenings by movie",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find screenings of movie %s: %w", movieID.String(), err)
	}
	defer rows.Close()

	var screenings []*entity.ScreeningDetail
	for rows.Next() {
		detail, err := scanScreeningDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan screening row", zap.Error(err))
			return nil, fmt.Errorf("scan screening row: %w", err)
		}
		screenings = append(screenings, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate screening rows: %w", err)
	}

	return screenings, nil
}
