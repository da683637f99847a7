package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/Freeeeeet/barbershop_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BusinessHoursRepository struct {
	*base.Repository
}

func NewBusinessHoursRepository(pool *pgxpool.Pool) *BusinessHoursRepository {
	return &BusinessHoursRepository{Repository: base.NewRepository(pool)}
}

// BusinessHours получает расписание на день недели.
// Возвращает nil, если день не настроен
func (r *BusinessHoursRepository) BusinessHours(ctx context.Context, weekday time.Weekday) (*model.BusinessHours, error) {
	query := `
		SELECT weekday, open_minute, close_minute, interval_minutes, closed
		FROM business_hours
		WHERE weekday = $1
	`

	var (
		hours model.BusinessHours
		day   int16
		open  int32
		close int32
		step  int32
	)
	err := r.QueryRow(ctx, query, int16(weekday)).Scan(&day, &open, &close, &step, &hours.Closed)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business hours: %w", err)
	}

	hours.Weekday = time.Weekday(day)
	hours.Open = model.TimeOfDay(open)
	hours.Close = model.TimeOfDay(close)
	hours.IntervalMinutes = int(step)

	return &hours, nil
}

// ListBusinessHours получает расписание на всю неделю
func (r *BusinessHoursRepository) ListBusinessHours(ctx context.Context) ([]*model.BusinessHours, error) {
	query := `
		SELECT weekday, open_minute, close_minute, interval_minutes, closed
		FROM business_hours
		ORDER BY weekday
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list business hours: %w", err)
	}
	defer rows.Close()

	var result []*model.BusinessHours
	for rows.Next() {
		var (
			hours             model.BusinessHours
			day               int16
			open, close, step int32
		)
		if err := rows.Scan(&day, &open, &close, &step, &hours.Closed); err != nil {
			return nil, fmt.Errorf("scan business hours: %w", err)
		}
		hours.Weekday = time.Weekday(day)
		hours.Open = model.TimeOfDay(open)
		hours.Close = model.TimeOfDay(close)
		hours.IntervalMinutes = int(step)
		result = append(result, &hours)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business hours: %w", err)
	}

	return result, nil
}

// UpsertBusinessHours сохраняет расписание на день недели
func (r *BusinessHoursRepository) UpsertBusinessHours(ctx context.Context, hours *model.BusinessHours) error {
	query := `
		INSERT INTO business_hours (weekday, open_minute, close_minute, interval_minutes, closed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (weekday) DO UPDATE
		SET open_minute = EXCLUDED.open_minute,
		    close_minute = EXCLUDED.close_minute,
		    interval_minutes = EXCLUDED.interval_minutes,
		    closed = EXCLUDED.closed
	`

	_, err := r.ExecAffected(ctx, query,
		int16(hours.Weekday),
		int32(hours.Open),
		int32(hours.Close),
		int32(hours.IntervalMinutes),
		hours.Closed,
	)
	if err != nil {
		return fmt.Errorf("upsert business hours: %w", err)
	}

	return nil
}
