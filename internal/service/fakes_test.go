package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/events"
	"github.com/Freeeeeet/barbershop_bot/internal/model"
)

// memoryAppointments хранилище с ограничением уникальности (barber_id, start_at) для активных записей
type memoryAppointments struct {
	mu           sync.Mutex
	nextID       int64
	appointments map[int64]*model.Appointment
	createCalls  int
	failWith     error
	markErr      error
	marked       []int64
}

func newMemoryAppointments() *memoryAppointments {
	return &memoryAppointments{appointments: make(map[int64]*model.Appointment)}
}

func (m *memoryAppointments) taken(barberID int64, startAt time.Time, exceptID int64) bool {
	for _, a := range m.appointments {
		if a.ID != exceptID && a.IsActive() && a.BarberID == barberID && a.StartAt.Equal(startAt) {
			return true
		}
	}
	return false
}

func (m *memoryAppointments) CreateAppointment(_ context.Context, appt *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.failWith != nil {
		return m.failWith
	}
	if m.taken(appt.BarberID, appt.StartAt, 0) {
		return fmt.Errorf("create appointment: %w", model.ErrConflict)
	}
	m.nextID++
	appt.ID = m.nextID
	stored := *appt
	m.appointments[appt.ID] = &stored
	return nil
}

func (m *memoryAppointments) RescheduleAppointment(_ context.Context, id, barberID int64, startAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	appt, ok := m.appointments[id]
	if !ok || !appt.IsActive() {
		return fmt.Errorf("reschedule appointment %d: %w", id, model.ErrNotFound)
	}
	if m.taken(barberID, startAt, id) {
		return fmt.Errorf("reschedule appointment %d: %w", id, model.ErrConflict)
	}
	appt.BarberID = barberID
	appt.StartAt = startAt
	appt.Status = model.AppointmentStatusRescheduled
	appt.ReminderSent = false
	return nil
}

func (m *memoryAppointments) DeleteAppointment(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	appt, ok := m.appointments[id]
	if !ok || !appt.IsActive() {
		return fmt.Errorf("cancel appointment %d: %w", id, model.ErrNotFound)
	}
	appt.Status = model.AppointmentStatusCancelled
	return nil
}

func (m *memoryAppointments) ListUpcomingAppointments(_ context.Context, from, to time.Time) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*model.Appointment
	for _, a := range m.appointments {
		if a.IsActive() && !a.StartAt.Before(from) && !a.StartAt.After(to) {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memoryAppointments) MarkReminderSent(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markErr != nil {
		return m.markErr
	}
	m.marked = append(m.marked, id)
	if a, ok := m.appointments[id]; ok {
		a.ReminderSent = true
	}
	return nil
}

func (m *memoryAppointments) add(appt *model.Appointment) *model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	appt.ID = m.nextID
	if appt.Status == "" {
		appt.Status = model.AppointmentStatusBooked
	}
	m.appointments[appt.ID] = appt
	return appt
}

func (m *memoryAppointments) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, a := range m.appointments {
		if a.IsActive() {
			n++
		}
	}
	return n
}

// staticSlots всегда возвращает один и тот же набор свободных слотов
type staticSlots struct {
	times []model.TimeOfDay
	err   error
}

func (s staticSlots) ListAvailableTimes(context.Context, int64, time.Time) ([]model.TimeOfDay, error) {
	return s.times, s.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []string
	for _, e := range p.events {
		result = append(result, e.Type)
	}
	return result
}
