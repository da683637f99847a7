package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReminderSender рассылает напоминания о ближайших записях
type ReminderSender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// Sweeper удаляет просроченные диалоги из памяти
type Sweeper interface {
	Sweep() int
}

// Scheduler управляет фоновыми задачами бота
type Scheduler struct {
	reminders ReminderSender
	sweeper   Sweeper
	interval  time.Duration
	logger    *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт новый планировщик. sweeper может быть nil
func NewScheduler(reminders ReminderSender, sweeper Sweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		reminders: reminders,
		sweeper:   sweeper,
		interval:  interval,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runReminderTask каждые interval рассылает напоминания
func (s *Scheduler) runReminderTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	sent, err := s.reminders.SendDueReminders(ctx)
	if err != nil {
		s.logger.Error("Failed to send reminders", zap.Error(err))
	} else if sent > 0 {
		s.logger.Info("Reminders sent", zap.Int("count", sent))
	}

	if s.sweeper != nil {
		if removed := s.sweeper.Sweep(); removed > 0 {
			s.logger.Debug("Expired conversations removed", zap.Int("count", removed))
		}
	}
}
