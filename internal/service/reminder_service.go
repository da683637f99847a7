package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/events"
	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ReminderStore источник записей для напоминаний
type ReminderStore interface {
	ListUpcomingAppointments(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// Notifier доставляет сообщение собеседнику через транспорт
type Notifier interface {
	Notify(ctx context.Context, identity, text string) error
}

// ReminderService рассылает напоминания о скорых записях
type ReminderService struct {
	store     ReminderStore
	notifier  Notifier
	publisher events.Publisher
	limiter   *rate.Limiter
	window    time.Duration
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewReminderService(
	store ReminderStore,
	notifier Notifier,
	publisher events.Publisher,
	window time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) *ReminderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		// Не больше 20 сообщений в секунду, чтобы не упереться в лимиты мессенджера
		limiter: rate.NewLimiter(rate.Limit(20), 5),
		window:  window,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock подменяет источник текущего времени
func (s *ReminderService) WithClock(now func() time.Time) *ReminderService {
	s.now = now
	return s
}

// WithLimiter подменяет ограничитель частоты отправки
func (s *ReminderService) WithLimiter(limiter *rate.Limiter) *ReminderService {
	s.limiter = limiter
	return s
}

// SendDueReminders отправляет напоминания по записям, начинающимся в ближайшее окно.
// Возвращает количество отправленных сообщений
func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()

	appointments, err := s.store.ListUpcomingAppointments(ctx, now, now.Add(s.window))
	if err != nil {
		return 0, fmt.Errorf("list upcoming appointments: %w", err)
	}

	sent := 0
	for _, appt := range appointments {
		if appt.ReminderSent || !appt.IsActive() {
			continue
		}
		if appt.StartAt.Before(now) || appt.StartAt.After(now.Add(s.window)) {
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return sent, fmt.Errorf("wait rate limiter: %w", err)
		}

		text := FormatReminder(appt.ClientName, appt.StartAt.In(s.loc), now.In(s.loc))
		if err := s.notifier.Notify(ctx, appt.ClientPhone, text); err != nil {
			s.logger.Error("Failed to send reminder",
				zap.Int64("appointment_id", appt.ID),
				zap.Error(err))
			continue
		}
		sent++

		// Флаг ставится по возможности: при ошибке повторной попытки в этом проходе нет
		if err := s.store.MarkReminderSent(ctx, appt.ID); err != nil {
			s.logger.Warn("Failed to mark reminder as sent",
				zap.Int64("appointment_id", appt.ID),
				zap.Error(err))
			continue
		}

		if err := s.publisher.Publish(ctx, events.NewEvent(events.ReminderSent, appt)); err != nil {
			s.logger.Warn("Failed to publish event",
				zap.String("event_type", events.ReminderSent),
				zap.Error(err))
		}
	}

	if sent > 0 {
		s.logger.Info("Reminders sent", zap.Int("count", sent))
	}

	return sent, nil
}

// FormatReminder текст напоминания. Если запись не сегодня, в тексте указывается дата
func FormatReminder(name string, startAt, now time.Time) string {
	if name == "" {
		name = "Cliente"
	}

	day := "hoje"
	if !model.SameDate(startAt, now.In(startAt.Location())) {
		day = "dia " + startAt.Format("02/01")
	}
	return fmt.Sprintf("⏰ Olá %s! Lembrete: seu horário na barbearia é %s às %s. Até já!",
		name, day, startAt.Format("15:04"))
}
