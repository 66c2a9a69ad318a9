package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/avtoclass/schedboard/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// Create создаёт новую запись о занятии
func (r *ReservationRepository) Create(ctx context.Context, res *model.Reservation) error {
	query := `
		INSERT INTO reservations (instructor_id, start_time, end_time, student_id, student_name,
			color_token, confirmed, favorite, important, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		res.InstructorID,
		res.Start,
		res.End,
		res.StudentID,
		res.StudentName,
		res.ColorToken,
		res.Confirmed,
		res.Favorite,
		res.Important,
		res.Notes,
	).Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

// GetByID получает занятие по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `
		SELECT id, instructor_id, start_time, end_time, student_id, student_name,
			color_token, confirmed, favorite, important, notes, created_at
		FROM reservations
		WHERE id = $1
	`

	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}
	return res, nil
}

// GetByRange получает занятия всех инструкторов в диапазоне времени
func (r *ReservationRepository) GetByRange(ctx context.Context, from, to time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT id, instructor_id, start_time, end_time, student_id, student_name,
			color_token, confirmed, favorite, important, notes, created_at
		FROM reservations
		WHERE start_time >= $1
		  AND start_time < $2
		ORDER BY start_time, id
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get reservations by range: %w", err)
	}
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}

	return reservations, nil
}

// Delete удаляет занятие
func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("reservation %d not found", id)
	}
	return nil
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID,
		&res.InstructorID,
		&res.Start,
		&res.End,
		&res.StudentID,
		&res.StudentName,
		&res.ColorToken,
		&res.Confirmed,
		&res.Favorite,
		&res.Important,
		&res.Notes,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
