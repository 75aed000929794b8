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

type HallRepository interface {
	Create(ctx context.Context, hall *entity.Hall) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error)
	FindByCinemaID(ctx context.Context, cinemaID uuid.UUID) ([]*entity.Hall, error)
}

type hallRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHallRepository(db database.PgxIface, log *zap.Logger) HallRepository {
	return &hallRepository{
		db:  db,
		log: log.With(zap.String("repository", "hall")),
	}
}

// Create fails with ErrDuplicate when the cinema already has a hall of that name.
func (r *hallRepository) Create(ctx context.Context, hall *entity.Hall) error {
	query := `
		INSERT INTO halls (id, cinema_id, name, size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		hall.ID,
		hall.CinemaID,
		hall.Name,
		hall.Size,
		hall.CreatedAt,
		hall.UpdatedAt,
	)

	if database.IsUniqueViolation(err) {
		return fmt.Errorf("create hall %q in cinema %s: %w", hall.Name, hall.CinemaID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create hall",
			zap.Error(err),
			zap.String("cinema_id", hall.CinemaID.String()),
			zap.String("name", hall.Name),
		)
		return fmt.Errorf("create hall %q in cinema %s: %w", hall.Name, hall.CinemaID.String(), err)
	}

	return nil
}

func (r *hallRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Hall, error) {
	query := `
		SELECT id, cinema_id, name, size, created_at, updated_at
		FROM halls
		WHERE id = $1
	`

	var hall entity.Hall
	err := r.db.QueryRow(ctx, query, id).Scan(
		&hall.ID,
		&hall.CinemaID,
		&hall.Name,
		&hall.Size,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hall by ID",
			zap.Error(err),
			zap.String("hall_id", id.String()),
		)
		return nil, fmt.Errorf("find hall by ID %s: %w", id.String(), err)
	}

	return &hall, nil
}

func (r *hallRepository) FindByCinemaID(ctx context.Context, cinemaID uuid.UUID) ([]*entity.Hall, error) {
	query := `
		SELECT id, cinema_id, name, size, created_at, updated_at
		FROM halls
		WHERE cinema_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, cinemaID)
	if err != nil {
		r.log.Error("Failed to find halls by cinema ID",
			zap.Error(err),
			zap.String("cinema_id", cinemaID.String()),
		)
		return nil, fmt.Errorf("find halls by cinema ID %s: %w", cinemaID.String(), err)
	}
	defer rows.Close()

	var halls []*entity.Hall
	for rows.Next() {
		var hall entity.Hall
		err := rows.Scan(
			&hall.ID,
			&hall.CinemaID,
			&hall.Name,
			&hall.Size,
			&hall.CreatedAt,
			&hall.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan hall row", zap.Error(err))
			return nil, fmt.Errorf("scan hall row: %w", err)
		}
		halls = append(halls, &hall)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hall rows: %w", err)
	}

	return halls, nil
}
