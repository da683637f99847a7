package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
)

// Source источник расписания и занятых слотов
type Source interface {
	BusinessHours(ctx context.Context, weekday time.Weekday) (*model.BusinessHours, error)
	ListBarberAppointments(ctx context.Context, barberID int64, day time.Time) ([]*model.Appointment, error)
}

// Resolver вычисляет свободные слоты барбера на дату
type Resolver struct {
	source Source
	loc    *time.Location
	now    func() time.Time
}

func NewResolver(source Source, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{
		source: source,
		loc:    loc,
		now:    time.Now,
	}
}

// WithClock подменяет источник текущего времени
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// ListAvailableTimes возвращает упорядоченные свободные времена начала.
// Пустой результат означает "нет свободных слотов", а не ошибку
func (r *Resolver) ListAvailableTimes(ctx context.Context, barberID int64, date time.Time) ([]model.TimeOfDay, error) {
	day := model.DateOf(date.In(r.loc))
	now := r.now().In(r.loc)

	// Прошедшие дни не предлагаются и не бронируются
	if day.Before(model.DateOf(now)) {
		return []model.TimeOfDay{}, nil
	}

	hours, err := r.source.BusinessHours(ctx, day.Weekday())
	if err != nil {
		return nil, fmt.Errorf("get business hours: %w", err)
	}
	if hours == nil {
		hours = model.DefaultBusinessHours(day.Weekday())
	}

	// Выходной: слоты не генерируются вообще
	grid := hours.Slots()
	if len(grid) == 0 {
		return []model.TimeOfDay{}, nil
	}

	appointments, err := r.source.ListBarberAppointments(ctx, barberID, day)
	if err != nil {
		return nil, fmt.Errorf("get barber appointments: %w", err)
	}

	booked := make(map[model.TimeOfDay]struct{}, len(appointments))
	for _, appt := range appointments {
		if !appt.IsActive() || appt.BarberID != barberID {
			continue
		}
		start := appt.StartAt.In(r.loc)
		if !model.SameDate(start, day) {
			continue
		}
		booked[model.TimeOfDayOf(start)] = struct{}{}
	}

	isToday := model.SameDate(now, day)

	result := make([]model.TimeOfDay, 0, len(grid))
	for _, slot := range grid {
		if _, taken := booked[slot]; taken {
			continue
		}
		if isToday && !slot.On(day).After(now) {
			continue
		}
		result = append(result, slot)
	}

	return result, nil
}
