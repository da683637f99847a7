package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/Freeeeeet/barbershop_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BarberRepository struct {
	*base.Repository
}

func NewBarberRepository(pool *pgxpool.Pool) *BarberRepository {
	return &BarberRepository{Repository: base.NewRepository(pool)}
}

// CreateBarber создаёт нового барбера
func (r *BarberRepository) CreateBarber(ctx context.Context, barber *model.Barber) error {
	query := `
		INSERT INTO barbers (name, phone)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, barber.Name, barber.Phone).Scan(&barber.ID, &barber.CreatedAt)
	if err != nil {
		return fmt.Errorf("create barber: %w", err)
	}

	return nil
}

// ListBarbers получает всех барберов в порядке добавления
func (r *BarberRepository) ListBarbers(ctx context.Context) ([]*model.Barber, error) {
	query := `SELECT id, name, phone, created_at FROM barbers ORDER BY id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list barbers: %w", err)
	}
	defer rows.Close()

	var barbers []*model.Barber
	for rows.Next() {
		var barber model.Barber
		if err := rows.Scan(&barber.ID, &barber.Name, &barber.Phone, &barber.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan barber: %w", err)
		}
		barbers = append(barbers, &barber)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate barbers: %w", err)
	}

	return barbers, nil
}

// DeleteBarber удаляет барбера вместе с его записями
func (r *BarberRepository) DeleteBarber(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM barbers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete barber: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete barber %d: %w", id, model.ErrNotFound)
	}

	return nil
}
