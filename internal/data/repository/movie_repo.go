package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinebook/internal/data/entity"
	"cinebook/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Movie, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, limit, offset int, releaseStatus *string) ([]*entity.Movie, error)
	CountAll(ctx context.Context, releaseStatus *string) (int64, error)

	// FindCurrent lists now-playing movies, newest release first.
	FindCurrent(ctx context.Context, limit int) ([]*entity.Movie, error)
	// SearchByTitle matches a case-insensitive substring of the title.
	SearchByTitle(ctx context.Context, term string, limit int) ([]*entity.Movie, error)
	// PromoteReleased moves coming-soon movies whose release date has passed to now-playing.
	PromoteReleased(ctx context.Context, asOf time.Time) (int64, error)
}

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, slug, description, poster_url, rating, release_date,
		       duration_in_minutes, release_status, created_at, updated_at, deleted_at`

func scanMovie(row rowScanner) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Slug,
		&movie.Description,
		&movie.PosterURL,
		&movie.Rating,
		&movie.ReleaseDate,
		&movie.DurationInMinutes,
		&movie.ReleaseStatus,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&movie.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, slug, description, poster_url, rating,
		                   release_date, duration_in_minutes, release_status,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Slug,
		movie.Description,
		movie.PosterURL,
		movie.Rating,
		movie.ReleaseDate,
		movie.DurationInMinutes,
		movie.ReleaseStatus,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		return fmt.Errorf("create movie %s: %w", movie.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie: %w", err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie %s: %w", id.String(), err)
	}

	return movie, nil
}

func (r *movieRepository) FindBySlug(ctx context.Context, slug string) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE slug = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by slug",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, fmt.Errorf("find movie by slug %s: %w", slug, err)
	}

	return movie, nil
}

// SlugExists also counts soft-deleted rows, since the unique index covers them.
func (r *movieRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check slug", zap.Error(err), zap.String("slug", slug))
		return false, fmt.Errorf("check slug %s: %w", slug, err)
	}
	return exists, nil
}

func (r *movieRepository) FindAll(ctx context.Context, limit, offset int, releaseStatus *string) ([]*entity.Movie, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + movieColumns + ` FROM movies WHERE deleted_at IS NULL`)

	args := []any{}
	argCount := 1

	if releaseStatus != nil && *releaseStatus != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND release_status = $%d", argCount))
		args = append(args, *releaseStatus)
		argCount++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY release_date DESC, title LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	movies, err := r.queryMovies(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
			zap.Stringp("release_status", releaseStatus),
		)
		return nil, fmt.Errorf("find movies: %w", err)
	}

	r.log.Debug("Movies found",
		zap.Int("count", len(movies)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context, releaseStatus *string) (int64, error) {
	query := `SELECT COUNT(*) FROM movies WHERE deleted_at IS NULL`
	args := []any{}

	if releaseStatus != nil && *releaseStatus != "" {
		query += " AND release_status = $1"
		args = append(args, *releaseStatus)
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count movies",
			zap.Error(err),
			zap.Stringp("release_status", releaseStatus),
		)
		return 0, fmt.Errorf("count movies: %w", err)
	}

	return total, nil
}

func (r *movieRepository) FindCurrent(ctx context.Context, limit int) ([]*entity.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE deleted_at IS NULL AND release_status = $1
		ORDER BY release_date DESC, title
		LIMIT $2
	`

	movies, err := r.queryMovies(ctx, query, entity.ReleaseStatusNowPlaying, limit)
	if err != nil {
		r.log.Error("Failed to find current movies", zap.Error(err), zap.Int("limit", limit))
		return nil, fmt.Errorf("find current movies: %w", err)
	}
	return movies, nil
}

func (r *movieRepository) SearchByTitle(ctx context.Context, term string, limit int) ([]*entity.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE deleted_at IS NULL AND title ILIKE $1
		ORDER BY title
		LIMIT $2
	`

	movies, err := r.queryMovies(ctx, query, "%"+escapeLike(term)+"%", limit)
	if err != nil {
		r.log.Error("Failed to search movies", zap.Error(err), zap.String("term", term))
		return nil, fmt.Errorf("search movies %q: %w", term, err)
	}
	return movies, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, slug = $3, description = $4, poster_url = $5, rating = $6,
		    release_date = $7, duration_in_minutes = $8, release_status = $9,
		    updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Slug,
		movie.Description,
		movie.PosterURL,
		movie.Rating,
		movie.ReleaseDate,
		movie.DurationInMinutes,
		movie.ReleaseStatus,
		movie.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE movies SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("delete movie %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete movie %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Movie soft deleted", zap.String("movie_id", id.String()))
	return nil
}

func (r *movieRepository) PromoteReleased(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE movies
		SET release_status = $1, updated_at = NOW()
		WHERE release_status = $2 AND release_date <= $3 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, entity.ReleaseStatusNowPlaying, entity.ReleaseStatusComingSoon, asOf)
	if err != nil {
		r.log.Error("Failed to promote released movies", zap.Error(err))
		return 0, fmt.Errorf("promote released movies: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *movieRepository) queryMovies(ctx context.Context, query string, args ...any) ([]*entity.Movie, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}
	return movies, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
