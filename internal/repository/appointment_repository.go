package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/Freeeeeet/barbershop_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `id, barber_id, client_name, client_phone, start_at, status, reminder_sent, created_at, updated_at`

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

// CreateAppointment создаёт запись. Если слот барбера уже занят, возвращает model.ErrConflict
func (r *AppointmentRepository) CreateAppointment(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (barber_id, client_name, client_phone, start_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, reminder_sent, created_at, updated_at
	`

	if appt.Status == "" {
		appt.Status = model.AppointmentStatusBooked
	}

	err := r.QueryRow(
		ctx, query,
		appt.BarberID,
		appt.ClientName,
		appt.ClientPhone,
		appt.StartAt,
		appt.Status,
	).Scan(&appt.ID, &appt.ReminderSent, &appt.CreatedAt, &appt.UpdatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create appointment: %w", model.ErrConflict)
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetAppointment получает запись по ID
func (r *AppointmentRepository) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("get appointment %d: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appt, nil
}

// ListClientAppointments получает активные записи клиента по номеру телефона
func (r *AppointmentRepository) ListClientAppointments(ctx context.Context, phone string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE client_phone = $1 AND status <> 'cancelled'
		ORDER BY start_at
	`

	rows, err := r.Query(ctx, query, phone)
	if err != nil {
		return nil, fmt.Errorf("get appointments by client: %w", err)
	}

	return collectAppointments(rows)
}

// ListBarberAppointments получает активные записи барбера за календарный день
func (r *AppointmentRepository) ListBarberAppointments(ctx context.Context, barberID int64, day time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE barber_id = $1
		  AND status <> 'cancelled'
		  AND start_at >= $2
		  AND start_at < $3
		ORDER BY start_at
	`

	from := model.DateOf(day)
	rows, err := r.Query(ctx, query, barberID, from, from.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("get appointments by barber: %w", err)
	}

	return collectAppointments(rows)
}

// ListUpcomingAppointments получает активные записи, начинающиеся в интервале [from, to]
func (r *AppointmentRepository) ListUpcomingAppointments(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status <> 'cancelled'
		  AND start_at >= $1
		  AND start_at <= $2
		ORDER BY start_at
	`

	rows, err := r.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get upcoming appointments: %w", err)
	}

	return collectAppointments(rows)
}

// RescheduleAppointment переносит запись на другое время и барбера.
// Напоминание сбрасывается, чтобы клиент получил его для нового времени
func (r *AppointmentRepository) RescheduleAppointment(ctx context.Context, id, barberID int64, startAt time.Time) error {
	query := `
		UPDATE appointments
		SET barber_id = $1, start_at = $2, status = 'rescheduled', reminder_sent = FALSE, updated_at = NOW()
		WHERE id = $3 AND status <> 'cancelled'
	`

	affected, err := r.ExecAffected(ctx, query, barberID, startAt, id)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("reschedule appointment %d: %w", id, model.ErrConflict)
		}
		return fmt.Errorf("reschedule appointment: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("reschedule appointment %d: %w", id, model.ErrNotFound)
	}

	return nil
}

// DeleteAppointment отменяет запись и освобождает слот
func (r *AppointmentRepository) DeleteAppointment(ctx context.Context, id int64) error {
	query := `
		UPDATE appointments
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status <> 'cancelled'
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("cancel appointment %d: %w", id, model.ErrNotFound)
	}

	return nil
}

// MarkReminderSent помечает, что напоминание по записи отправлено
func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, id int64) error {
	query := `UPDATE appointments SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("mark reminder sent %d: %w", id, model.ErrNotFound)
	}

	return nil
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var appt model.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.BarberID,
		&appt.ClientName,
		&appt.ClientPhone,
		&appt.StartAt,
		&appt.Status,
		&appt.ReminderSent,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func collectAppointments(rows pgx.Rows) ([]*model.Appointment, error) {
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}
