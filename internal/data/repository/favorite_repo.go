package repository

import (
	"context"
	"fmt"

	"cinebook/internal/data/entity"
	"cinebook/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FavoriteRepository interface {
	// Add is idempotent.
	Add(ctx context.Context, favorite *entity.Favorite) error
	// Remove reports whether a favorite existed.
	Remove(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, movieID uuid.UUID) (bool, error)
	FindMoviesByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Movie, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type favoriteRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFavoriteRepository(db database.PgxIface, log *zap.Logger) FavoriteRepository {
	return &favoriteRepository{
		db:  db,
		log: log.With(zap.String("repository", "favorite")),
	}
}

func (r *favoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) error {
	query := `
		INSERT INTO favorites (user_id, movie_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, favorite.UserID, favorite.MovieID, favorite.CreatedAt)
	if err != nil {
		r.log.Error("Failed to add favorite",
			zap.Error(err),
			zap.String("user_id", favorite.UserID.String()),
			zap.String("movie_id", favorite.MovieID.String()),
		)
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
	if err != nil {
		r.log.Error("Failed to remove favorite",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, movieID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND movie_id = $2)`,
		userID, movieID,
	).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check favorite", zap.Error(err))
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

func (r *favoriteRepository) FindMoviesByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Movie, error) {
	query := `
		SELECT m.id, m.title, m.slug, m.description, m.poster_url, m.rating, m.release_date,
		       m.duration_in_minutes, m.release_status, m.created_at, m.updated_at, m.deleted_at
		FROM favorites f
		JOIN movies m ON m.id = f.movie_id
		WHERE f.user_id = $1 AND m.deleted_at IS NULL
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find favorite movies",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find favorites of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan favorite movie", zap.Error(err))
			return nil, fmt.Errorf("scan favorite movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite rows: %w", err)
	}
	return movies, nil
}

func (r *favoriteRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM favorites f
		JOIN movies m ON m.id = f.movie_id
		WHERE f.user_id = $1 AND m.deleted_at IS NULL
	`

	var total int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count favorites", zap.Error(err))
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return total, nil
}
