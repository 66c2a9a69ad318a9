package repository

import (
	"context"
	"fmt"

	"github.com/avtoclass/schedboard/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InstructorRepository struct {
	pool *pgxpool.Pool
}

func NewInstructorRepository(pool *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{pool: pool}
}

// GetAll получает всех инструкторов. Строка двойного порядка "A"/"AxB"
// разбирается в пару позиций прямо при чтении.
func (r *InstructorRepository) GetAll(ctx context.Context) ([]*model.Instructor, error) {
	query := `
		SELECT id, name, sector, plate, gearbox, order_value
		FROM instructors
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*model.Instructor
	for rows.Next() {
		var inst model.Instructor
		var gearbox, orderValue string
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Sector, &inst.Vehicle.Plate, &gearbox, &orderValue); err != nil {
			return nil, fmt.Errorf("scan instructor: %w", err)
		}
		inst.Vehicle.Gearbox = model.Gearbox(gearbox)
		a, b, err := model.ParseDualOrder(orderValue)
		if err != nil {
			// Битый порядок не валит загрузку, инструктор уходит в конец
			a, b = int(inst.ID)+1000, int(inst.ID)+1000
		}
		inst.OrderA, inst.OrderB = a, b
		instructors = append(instructors, &inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instructors: %w", err)
	}

	return instructors, nil
}

// GetByID получает инструктора по ID
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*model.Instructor, error) {
	query := `
		SELECT id, name, sector, plate, gearbox, order_value
		FROM instructors
		WHERE id = $1
	`

	var inst model.Instructor
	var gearbox, orderValue string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&inst.ID,
		&inst.Name,
		&inst.Sector,
		&inst.Vehicle.Plate,
		&gearbox,
		&orderValue,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get instructor by id: %w", err)
	}

	inst.Vehicle.Gearbox = model.Gearbox(gearbox)
	if a, b, err := model.ParseDualOrder(orderValue); err == nil {
		inst.OrderA, inst.OrderB = a, b
	}
	return &inst, nil
}

// UpdateOrder сохраняет новую строку двойного порядка инструктора.
// Сам порядок редактируется внешним виджетом, ядро только читает его.
func (r *InstructorRepository) UpdateOrder(ctx context.Context, id int64, orderA, orderB int) error {
	query := `
		UPDATE instructors
		SET order_value = $2
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, model.FormatDualOrder(orderA, orderB))
	if err != nil {
		return fmt.Errorf("update instructor order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("instructor %d not found", id)
	}
	return nil
}
