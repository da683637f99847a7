package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusBooked      AppointmentStatus = "booked"      // Записан
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled" // Перенесён на другое время
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"   // Отменён
)

type Appointment struct {
	ID           int64             `json:"id"`
	BarberID     int64             `json:"barber_id"`
	ClientName   string            `json:"client_name"`
	ClientPhone  string            `json:"client_phone"`
	StartAt      time.Time         `json:"start_at"`
	Status       AppointmentStatus `json:"status"`
	ReminderSent bool              `json:"reminder_sent"` // Напоминание уже отправлено
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// IsActive возвращает true, если запись занимает слот барбера
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}
