package dialog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
)

var loc = time.FixedZone("BRT", -3*60*60)

// world сервис данных в памяти: барберы, записи, расписание и настройки
type world struct {
	mu           sync.Mutex
	now          time.Time
	barbers      []*model.Barber
	appointments map[int64]*model.Appointment
	nextID       int64
	hours        map[time.Weekday]*model.BusinessHours
	config       map[string]string

	barbersErr error
	writeErr   error
	panicOn    string

	created   []*model.Appointment
	cancelled []int64
}

func newWorld() *world {
	return &world{
		// Вторник, 10/06/2025 08:00
		now: time.Date(2025, 6, 10, 8, 0, 0, 0, loc),
		barbers: []*model.Barber{
			{ID: 3, Name: "Ana"},
			{ID: 7, Name: "Diego"},
		},
		appointments: make(map[int64]*model.Appointment),
		nextID:       100,
		hours:        make(map[time.Weekday]*model.BusinessHours),
		config:       make(map[string]string),
	}
}

func (w *world) clock() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.now
}

func (w *world) book(barberID int64, phone string, startAt time.Time) *model.Appointment {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextID++
	appt := &model.Appointment{
		ID:          w.nextID,
		BarberID:    barberID,
		ClientName:  "Outro",
		ClientPhone: phone,
		StartAt:     startAt,
		Status:      model.AppointmentStatusBooked,
	}
	w.appointments[appt.ID] = appt
	return appt
}

func (w *world) ListBarbers(context.Context) ([]*model.Barber, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.panicOn == "barbers" {
		panic("barbers exploded")
	}
	if w.barbersErr != nil {
		return nil, w.barbersErr
	}
	return w.barbers, nil
}

func (w *world) ListClientAppointments(_ context.Context, phone string) ([]*model.Appointment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var result []*model.Appointment
	for _, a := range w.appointments {
		if a.ClientPhone == phone && a.IsActive() {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (w *world) GetConfigValue(_ context.Context, key string) (string, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.config[key]
	return v, ok, nil
}

func (w *world) BusinessHours(_ context.Context, weekday time.Weekday) (*model.BusinessHours, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hours[weekday], nil
}

func (w *world) ListBarberAppointments(_ context.Context, barberID int64, day time.Time) ([]*model.Appointment, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var result []*model.Appointment
	for _, a := range w.appointments {
		if a.BarberID == barberID && a.IsActive() && model.SameDate(a.StartAt.In(day.Location()), day) {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (w *world) taken(barberID int64, startAt time.Time, exceptID int64) bool {
	for _, a := range w.appointments {
		if a.ID != exceptID && a.IsActive() && a.BarberID == barberID && a.StartAt.Equal(startAt) {
			return true
		}
	}
	return false
}

func (w *world) CreateAppointment(_ context.Context, appt *model.Appointment) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writeErr != nil {
		return w.writeErr
	}
	if w.taken(appt.BarberID, appt.StartAt, 0) {
		return fmt.Errorf("create appointment: %w", model.ErrConflict)
	}
	w.nextID++
	appt.ID = w.nextID
	stored := *appt
	w.appointments[appt.ID] = &stored
	w.created = append(w.created, &stored)
	return nil
}

func (w *world) RescheduleAppointment(_ context.Context, id, barberID int64, startAt time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writeErr != nil {
		return w.writeErr
	}
	appt, ok := w.appointments[id]
	if !ok || !appt.IsActive() {
		return fmt.Errorf("reschedule appointment %d: %w", id, model.ErrNotFound)
	}
	if w.taken(barberID, startAt, id) {
		return fmt.Errorf("reschedule appointment %d: %w", id, model.ErrConflict)
	}
	appt.BarberID = barberID
	appt.StartAt = startAt
	appt.Status = model.AppointmentStatusRescheduled
	return nil
}

func (w *world) DeleteAppointment(_ context.Context, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writeErr != nil {
		return w.writeErr
	}
	appt, ok := w.appointments[id]
	if !ok || !appt.IsActive() {
		return fmt.Errorf("cancel appointment %d: %w", id, model.ErrNotFound)
	}
	appt.Status = model.AppointmentStatusCancelled
	w.cancelled = append(w.cancelled, id)
	return nil
}

func (w *world) activeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, a := range w.appointments {
		if a.IsActive() {
			n++
		}
	}
	return n
}

var errUpstream = errors.New("data service unavailable")
