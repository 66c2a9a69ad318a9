package repository

import (
	"context"
	"fmt"

	"github.com/avtoclass/schedboard/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BlackoutRepository struct {
	pool *pgxpool.Pool
}

func NewBlackoutRepository(pool *pgxpool.Pool) *BlackoutRepository {
	return &BlackoutRepository{pool: pool}
}

// Create создаёт запись недоступности
func (r *BlackoutRepository) Create(ctx context.Context, b *model.Blackout) error {
	query := `
		INSERT INTO blackouts (instructor_id, kind, slot_key, start_time, end_time, step_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		b.InstructorID,
		b.Kind,
		b.Key,
		b.Start,
		b.End,
		b.StepDays,
	).Scan(&b.ID, &b.CreatedAt)

	if err != nil {
		return fmt.Errorf("create blackout: %w", err)
	}

	return nil
}

// GetByInstructor получает все записи недоступности инструктора
func (r *BlackoutRepository) GetByInstructor(ctx context.Context, instructorID int64) ([]*model.Blackout, error) {
	query := `
		SELECT id, instructor_id, kind, slot_key, start_time, end_time, step_days, created_at
		FROM blackouts
		WHERE instructor_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, instructorID)
	if err != nil {
		return nil, fmt.Errorf("get blackouts: %w", err)
	}
	defer rows.Close()

	var blackouts []*model.Blackout
	for rows.Next() {
		var b model.Blackout
		if err := rows.Scan(&b.ID, &b.InstructorID, &b.Kind, &b.Key, &b.Start, &b.End, &b.StepDays, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blackout: %w", err)
		}
		blackouts = append(blackouts, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blackouts: %w", err)
	}

	return blackouts, nil
}

// Delete удаляет запись недоступности
func (r *BlackoutRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blackouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blackout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("blackout %d not found", id)
	}
	return nil
}
