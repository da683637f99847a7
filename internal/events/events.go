package events

import (
	"context"
	"strconv"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/google/uuid"
)

// Типы событий жизненного цикла записи
const (
	AppointmentBooked      = "appointment.booked"
	AppointmentRescheduled = "appointment.rescheduled"
	AppointmentCancelled   = "appointment.cancelled"
	ReminderSent           = "appointment.reminder_sent"
)

const source = "barbershop-bot"

// Event событие по записи
type Event struct {
	ID            uuid.UUID `json:"id"`
	Source        string    `json:"source"`
	Type          string    `json:"type"`
	AppointmentID int64     `json:"appointment_id"`
	BarberID      int64     `json:"barber_id,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
	StartAt       time.Time `json:"start_at,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent собирает событие по записи
func NewEvent(eventType string, appt *model.Appointment) Event {
	evt := Event{
		ID:         uuid.New(),
		Source:     source,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
	if appt != nil {
		evt.AppointmentID = appt.ID
		evt.BarberID = appt.BarberID
		evt.ClientPhone = appt.ClientPhone
		evt.StartAt = appt.StartAt.UTC()
	}
	return evt
}

// Key ключ партиционирования: события одной записи попадают в одну партицию
func (e Event) Key() string {
	return strconv.FormatInt(e.AppointmentID, 10)
}

// Publisher публикует события
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NopPublisher отбрасывает события (Kafka не настроена)
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
