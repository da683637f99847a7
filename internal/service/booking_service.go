package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/events"
	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"go.uber.org/zap"
)

// SlotLister источник свободных слотов (локальный Resolver или API сервиса данных)
type SlotLister interface {
	ListAvailableTimes(ctx context.Context, barberID int64, date time.Time) ([]model.TimeOfDay, error)
}

// AppointmentWriter операции записи, которые может отклонить ограничение уникальности хранилища
type AppointmentWriter interface {
	CreateAppointment(ctx context.Context, appt *model.Appointment) error
	RescheduleAppointment(ctx context.Context, id, barberID int64, startAt time.Time) error
	DeleteAppointment(ctx context.Context, id int64) error
}

// ResultKind исход операции записи
type ResultKind int

const (
	ResultSuccess  ResultKind = iota // Записано
	ResultConflict                   // Слот занят
	ResultNotFound                   // Запись не найдена
	ResultError                      // Любая другая ошибка, можно повторить
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultConflict:
		return "conflict"
	case ResultNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// Result результат операции. Conflict обязан обрабатываться отдельно от Error
type Result struct {
	Kind        ResultKind
	Appointment *model.Appointment
	Err         error
}

// ClientInfo данные клиента для новой записи
type ClientInfo struct {
	Name  string
	Phone string
}

type BookingRequest struct {
	BarberID int64
	Date     time.Time
	Time     model.TimeOfDay
	Client   ClientInfo
}

type RescheduleRequest struct {
	Appointment *model.Appointment
	BarberID    int64
	Date        time.Time
	Time        model.TimeOfDay
}

// BookingService подтверждает, переносит и отменяет записи с проверкой занятости слота
type BookingService struct {
	slots     SlotLister
	store     AppointmentWriter
	publisher events.Publisher
	logger    *zap.Logger
}

func NewBookingService(
	slots SlotLister,
	store AppointmentWriter,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BookingService{
		slots:     slots,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// ConfirmBooking перепроверяет слот и создаёт запись
func (s *BookingService) ConfirmBooking(ctx context.Context, req BookingRequest) Result {
	startAt := req.Time.On(req.Date)

	free, err := s.isSlotFree(ctx, req.BarberID, req.Date, req.Time)
	if err != nil {
		return s.fail("confirm booking", err)
	}
	if !free {
		s.logger.Info("Slot taken before booking",
			zap.Int64("barber_id", req.BarberID),
			zap.Time("start_at", startAt))
		return Result{Kind: ResultConflict, Err: model.ErrConflict}
	}

	appt := &model.Appointment{
		BarberID:    req.BarberID,
		ClientName:  req.Client.Name,
		ClientPhone: req.Client.Phone,
		StartAt:     startAt,
		Status:      model.AppointmentStatusBooked,
	}

	if err := s.store.CreateAppointment(ctx, appt); err != nil {
		return s.classify("create appointment", err)
	}

	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("barber_id", appt.BarberID),
		zap.Time("start_at", appt.StartAt))

	s.publish(ctx, events.AppointmentBooked, appt)

	return Result{Kind: ResultSuccess, Appointment: appt}
}

// ConfirmReschedule перепроверяет слот и переносит существующую запись
func (s *BookingService) ConfirmReschedule(ctx context.Context, req RescheduleRequest) Result {
	if req.Appointment == nil {
		return s.fail("confirm reschedule", errors.New("appointment is not selected"))
	}

	startAt := req.Time.On(req.Date)
	current := req.Appointment

	// Перенос на собственное текущее время не конфликтует сам с собой
	ownSlot := current.BarberID == req.BarberID && current.StartAt.Equal(startAt)

	if !ownSlot {
		free, err := s.isSlotFree(ctx, req.BarberID, req.Date, req.Time)
		if err != nil {
			return s.fail("confirm reschedule", err)
		}
		if !free {
			s.logger.Info("Slot taken before reschedule",
				zap.Int64("appointment_id", current.ID),
				zap.Int64("barber_id", req.BarberID),
				zap.Time("start_at", startAt))
			return Result{Kind: ResultConflict, Err: model.ErrConflict}
		}
	}

	if err := s.store.RescheduleAppointment(ctx, current.ID, req.BarberID, startAt); err != nil {
		return s.classify("reschedule appointment", err)
	}

	updated := *current
	updated.BarberID = req.BarberID
	updated.StartAt = startAt
	updated.Status = model.AppointmentStatusRescheduled
	updated.ReminderSent = false

	s.logger.Info("Appointment rescheduled",
		zap.Int64("appointment_id", updated.ID),
		zap.Int64("barber_id", updated.BarberID),
		zap.Time("start_at", updated.StartAt))

	s.publish(ctx, events.AppointmentRescheduled, &updated)

	return Result{Kind: ResultSuccess, Appointment: &updated}
}

// CancelAppointment отменяет запись
func (s *BookingService) CancelAppointment(ctx context.Context, appt *model.Appointment) Result {
	if appt == nil {
		return s.fail("cancel appointment", errors.New("appointment is not selected"))
	}

	if err := s.store.DeleteAppointment(ctx, appt.ID); err != nil {
		return s.classify("cancel appointment", err)
	}

	s.logger.Info("Appointment cancelled", zap.Int64("appointment_id", appt.ID))

	cancelled := *appt
	cancelled.Status = model.AppointmentStatusCancelled
	s.publish(ctx, events.AppointmentCancelled, &cancelled)

	return Result{Kind: ResultSuccess, Appointment: &cancelled}
}

func (s *BookingService) isSlotFree(ctx context.Context, barberID int64, date time.Time, slot model.TimeOfDay) (bool, error) {
	times, err := s.slots.ListAvailableTimes(ctx, barberID, date)
	if err != nil {
		return false, fmt.Errorf("recheck availability: %w", err)
	}
	for _, t := range times {
		if t == slot {
			return true, nil
		}
	}
	return false, nil
}

// classify переводит ошибку хранилища в исход операции
func (s *BookingService) classify(op string, err error) Result {
	switch {
	case errors.Is(err, model.ErrConflict):
		s.logger.Info("Store rejected write: slot already booked", zap.String("op", op))
		return Result{Kind: ResultConflict, Err: err}
	case errors.Is(err, model.ErrNotFound):
		s.logger.Info("Store rejected write: appointment not found", zap.String("op", op))
		return Result{Kind: ResultNotFound, Err: err}
	default:
		return s.fail(op, err)
	}
}

func (s *BookingService) fail(op string, err error) Result {
	s.logger.Error("Booking operation failed", zap.String("op", op), zap.Error(err))
	return Result{Kind: ResultError, Err: fmt.Errorf("%s: %w", op, err)}
}

// publish отправляет событие; ошибка публикации не влияет на результат
func (s *BookingService) publish(ctx context.Context, eventType string, appt *model.Appointment) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, appt)); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event_type", eventType),
			zap.Int64("appointment_id", appt.ID),
			zap.Error(err))
	}
}
