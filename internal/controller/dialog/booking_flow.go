package dialog

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/conversation"
	"github.com/Freeeeeet/barbershop_bot/internal/model"
	"github.com/Freeeeeet/barbershop_bot/internal/service"
	"go.uber.org/zap"
)

// nextStep следующий шаг в ветке записи или переноса
func nextStep(current conversation.Step) conversation.Step {
	switch current {
	case conversation.StepBarberSelect:
		return conversation.StepDateSelect
	case conversation.StepDateSelect:
		return conversation.StepTimeSelect
	case conversation.StepTimeSelect:
		return conversation.StepConfirm
	case conversation.StepRescheduleBarber:
		return conversation.StepRescheduleDate
	case conversation.StepRescheduleDate:
		return conversation.StepRescheduleTime
	case conversation.StepRescheduleTime:
		return conversation.StepRescheduleConfirm
	}
	return current
}

func (e *Engine) handleBarberSelect(ctx context.Context, t *turn) ([]string, error) {
	choice, ok := parseChoice(t.text, len(t.state.BarberOptions))
	if !ok {
		return e.invalid(ctx, t, msgInvalidOption)
	}

	option, ok := t.state.SelectedBarber(choice)
	if !ok {
		return e.invalid(ctx, t, msgInvalidOption)
	}
	t.state.BarberID = option.ID
	t.state.BarberName = option.Name
	t.state.Date = nil
	t.state.Time = nil
	t.state.AvailableTimes = nil
	t.state.AvailableDates = e.nextDays(t)
	t.state.Advance(nextStep(t.state.Step))
	return e.show(ctx, t)
}

func (e *Engine) handleDateSelect(ctx context.Context, t *turn) ([]string, error) {
	if t.state.BarberID == 0 {
		return nil, missing(t.state.Step, "barber")
	}

	date, prefix, ok := e.pickDate(t)
	if !ok {
		return e.invalid(ctx, t, prefix)
	}

	times := e.availableTimes(ctx, t, date)
	if len(times) == 0 {
		return e.invalid(ctx, t, msgNoTimes)
	}

	t.state.Date = &date
	t.state.Time = nil
	t.state.AvailableTimes = times
	t.state.Advance(nextStep(t.state.Step))
	return e.show(ctx, t)
}

// pickDate выбирает день по номеру в списке или по вводу DD/MM.
// Список, устаревший после полуночи, обновляется, а прошедший день отклоняется
func (e *Engine) pickDate(t *turn) (time.Time, string, bool) {
	date, prefix, ok := e.matchDate(t)
	if !ok {
		return date, prefix, false
	}

	if date.Before(model.DateOf(t.now)) {
		t.state.AvailableDates = e.nextDays(t)
		return time.Time{}, msgDateOutOfRange, false
	}
	return date, "", true
}

func (e *Engine) matchDate(t *turn) (time.Time, string, bool) {
	dates := t.state.AvailableDates

	if choice, ok := parseChoice(t.text, len(dates)); ok {
		return dates[choice-1], "", true
	}

	day, month, ok := parseDayMonth(t.text)
	if !ok {
		return time.Time{}, msgInvalidDate, false
	}
	for _, d := range dates {
		if d.Day() == day && d.Month() == month {
			return d, "", true
		}
	}
	return time.Time{}, msgDateOutOfRange, false
}

// availableTimes свободные слоты; ошибка чтения означает "нет свободных слотов"
func (e *Engine) availableTimes(ctx context.Context, t *turn, date time.Time) []model.TimeOfDay {
	times, err := e.slots.ListAvailableTimes(ctx, t.state.BarberID, date)
	if err != nil {
		t.log.Warn("Failed to list available times",
			zap.Int64("barber_id", t.state.BarberID),
			zap.Time("date", date),
			zap.Error(err))
		return nil
	}
	return times
}

func (e *Engine) handleTimeSelect(ctx context.Context, t *turn) ([]string, error) {
	if t.state.Date == nil {
		return nil, missing(t.state.Step, "date")
	}

	choice, ok := parseChoice(t.text, len(t.state.AvailableTimes))
	if !ok {
		return e.invalid(ctx, t, msgInvalidOption)
	}

	slot := t.state.AvailableTimes[choice-1]
	if !slot.On(*t.state.Date).After(t.now) {
		return e.invalid(ctx, t, msgTimePassed)
	}

	t.state.Time = &slot
	t.state.Advance(nextStep(t.state.Step))
	return e.show(ctx, t)
}

func (e *Engine) handleConfirm(ctx context.Context, t *turn) ([]string, error) {
	s := t.state
	if s.BarberID == 0 || s.Date == nil || s.Time == nil {
		return nil, missing(s.Step, "barber, date or time")
	}
	if t.text != "1" {
		return e.invalid(ctx, t, msgInvalidConfirm)
	}

	res := e.booker.ConfirmBooking(ctx, service.BookingRequest{
		BarberID: s.BarberID,
		Date:     *s.Date,
		Time:     *s.Time,
		Client:   e.clientInfo(t),
	})

	t.log.Info("Booking confirmation",
		zap.Int64("barber_id", s.BarberID),
		zap.String("result", res.Kind.String()))

	switch res.Kind {
	case service.ResultSuccess:
		return e.finish(t, fmt.Sprintf("✅ Agendamento confirmado para %s às %s.", formatDay(*s.Date), s.Time)), nil
	case service.ResultConflict:
		return e.afterConflict(ctx, t)
	default:
		// Состояние сохраняется: клиент может повторить "1"
		return []string{msgSaveFailed}, nil
	}
}

func (e *Engine) handleRescheduleConfirm(ctx context.Context, t *turn) ([]string, error) {
	s := t.state
	if s.SelectedAppointment == nil || s.BarberID == 0 || s.Date == nil || s.Time == nil {
		return nil, missing(s.Step, "appointment, barber, date or time")
	}
	if t.text != "1" {
		return e.invalid(ctx, t, msgInvalidConfirm)
	}

	res := e.booker.ConfirmReschedule(ctx, service.RescheduleRequest{
		Appointment: s.SelectedAppointment,
		BarberID:    s.BarberID,
		Date:        *s.Date,
		Time:        *s.Time,
	})

	t.log.Info("Reschedule confirmation",
		zap.Int64("appointment_id", s.SelectedAppointment.ID),
		zap.String("result", res.Kind.String()))

	switch res.Kind {
	case service.ResultSuccess:
		return e.finish(t, fmt.Sprintf("🔄 Agendamento atualizado para %s às %s.", formatDay(*s.Date), s.Time)), nil
	case service.ResultConflict:
		return e.afterConflict(ctx, t)
	case service.ResultNotFound:
		return e.finish(t, msgApptGone), nil
	default:
		return []string{msgRescheduleFailed}, nil
	}
}

// afterConflict слот заняли: возврат к выбору времени с актуальным списком.
// Если свободных слотов на день не осталось, возврат к выбору дня
func (e *Engine) afterConflict(ctx context.Context, t *turn) ([]string, error) {
	s := t.state
	s.Time = nil

	step := s.GoBack()
	if step != conversation.StepTimeSelect && step != conversation.StepRescheduleTime {
		return nil, fmt.Errorf("%w: conflict returned to %s", ErrInternalState, step)
	}

	times := e.availableTimes(ctx, t, *s.Date)
	if len(times) > 0 {
		s.AvailableTimes = times
		return e.invalid(ctx, t, msgSlotTaken)
	}

	s.GoBack()
	s.Date = nil
	s.AvailableTimes = nil
	return e.invalid(ctx, t, msgSlotTaken+"\n"+msgNoTimes)
}
