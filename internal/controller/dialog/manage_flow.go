package dialog

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/barbershop_bot/internal/conversation"
	"github.com/Freeeeeet/barbershop_bot/internal/service"
	"go.uber.org/zap"
)

// Ключи справочных настроек барбершопа
const (
	configDescription = "descricao"
	configAddress     = "endereco"
)

func (e *Engine) handleMenu(ctx context.Context, t *turn) ([]string, error) {
	switch {
	case greetings[t.text]:
		return e.greet(ctx, t)
	case t.text == "1":
		return e.startBooking(ctx, t)
	case t.text == "2":
		return e.finish(t, e.configValue(ctx, t, configDescription, defaultDescription)), nil
	case t.text == "3":
		return e.finish(t, e.configValue(ctx, t, configAddress, defaultAddress)), nil
	case t.text == "4":
		return e.startManage(ctx, t)
	}
	return e.invalid(ctx, t, msgInvalidOption)
}

// greet приветствие: при наличии будущих записей сразу предлагает действия с ними
func (e *Engine) greet(ctx context.Context, t *turn) ([]string, error) {
	future := e.futureAppointments(ctx, t)

	switch len(future) {
	case 0:
		return []string{msgRootMenu}, nil
	case 1:
		t.state.CandidateAppointments = future
		t.state.SelectedAppointment = future[0]
		t.state.Advance(conversation.StepReminderOptions)
	default:
		t.state.CandidateAppointments = future
		t.state.Advance(conversation.StepMultiAppointmentMenu)
	}
	return e.show(ctx, t)
}

// startManage пункт 4 главного меню: перенос или отмена
func (e *Engine) startManage(ctx context.Context, t *turn) ([]string, error) {
	future := e.futureAppointments(ctx, t)

	switch len(future) {
	case 0:
		return e.finish(t, msgNoFutureAppts), nil
	case 1:
		t.state.CandidateAppointments = future
		t.state.SelectedAppointment = future[0]
		t.state.Advance(conversation.StepManageSelectAction)
	default:
		t.state.CandidateAppointments = future
		t.state.Advance(conversation.StepManageSelectAppointment)
	}
	return e.show(ctx, t)
}

func (e *Engine) handleMultiAppointmentMenu(ctx context.Context, t *turn) ([]string, error) {
	switch t.text {
	case "1":
		t.state.Advance(conversation.StepManageSelectAppointment)
		return e.show(ctx, t)
	case "2":
		return e.startBooking(ctx, t)
	}
	return e.invalid(ctx, t, msgInvalidOption)
}

func (e *Engine) handleReminderOptions(ctx context.Context, t *turn) ([]string, error) {
	if t.state.SelectedAppointment == nil {
		return nil, missing(t.state.Step, "selected appointment")
	}

	switch t.text {
	case "1":
		return e.startReschedule(ctx, t)
	case "2":
		return e.cancel(ctx, t), nil
	case "3":
		return e.startBooking(ctx, t)
	}
	return e.invalid(ctx, t, msgInvalidOption)
}

func (e *Engine) handleManageSelectAppointment(ctx context.Context, t *turn) ([]string, error) {
	choice, ok := parseChoice(t.text, len(t.state.CandidateAppointments))
	if !ok {
		return e.invalid(ctx, t, msgInvalidOption)
	}

	t.state.SelectedAppointment = t.state.CandidateAppointments[choice-1]
	t.state.Advance(conversation.StepManageSelectAction)
	return e.show(ctx, t)
}

func (e *Engine) handleManageSelectAction(ctx context.Context, t *turn) ([]string, error) {
	if t.state.SelectedAppointment == nil {
		return nil, missing(t.state.Step, "selected appointment")
	}

	switch t.text {
	case "1":
		return e.startReschedule(ctx, t)
	case "2":
		return e.cancel(ctx, t), nil
	case "3":
		options := e.barbers(ctx, t)
		if len(options) == 0 {
			return []string{msgNoBarbers}, nil
		}
		t.state.BarberOptions = options
		t.state.Advance(conversation.StepRescheduleBarber)
		return e.show(ctx, t)
	}
	return e.invalid(ctx, t, msgInvalidOption)
}

// startBooking начинает новую запись со списка барберов
func (e *Engine) startBooking(ctx context.Context, t *turn) ([]string, error) {
	options := e.barbers(ctx, t)
	if len(options) == 0 {
		return []string{msgNoBarbers}, nil
	}

	t.state.BarberOptions = options
	t.state.Advance(conversation.StepBarberSelect)
	return e.show(ctx, t)
}

// startReschedule перенос к тому же барберу: выбор барбера пропускается
func (e *Engine) startReschedule(ctx context.Context, t *turn) ([]string, error) {
	appt := t.state.SelectedAppointment

	t.state.BarberID = appt.BarberID
	t.state.BarberName = barberName(e.barberNames(ctx, t), appt.BarberID)
	t.state.Date = nil
	t.state.Time = nil
	t.state.AvailableDates = e.nextDays(t)
	t.state.Advance(conversation.StepRescheduleDate)
	return e.show(ctx, t)
}

// cancel отменяет выбранную запись. Диалог возвращается в меню при любом исходе
func (e *Engine) cancel(ctx context.Context, t *turn) []string {
	appt := t.state.SelectedAppointment
	res := e.booker.CancelAppointment(ctx, appt)

	t.log.Info("Cancel requested",
		zap.Int64("appointment_id", appt.ID),
		zap.String("result", res.Kind.String()))

	switch res.Kind {
	case service.ResultSuccess:
		return e.finish(t, fmt.Sprintf("❌ Agendamento de %s cancelado.", formatDateTime(appt.StartAt.In(e.loc))))
	case service.ResultNotFound:
		return e.finish(t, msgAlreadyCancelled)
	default:
		return e.finish(t, msgCancelFailed)
	}
}

// configValue справочный текст; при отсутствии или ошибке используется запасной вариант
func (e *Engine) configValue(ctx context.Context, t *turn, key, fallback string) string {
	value, ok, err := e.directory.GetConfigValue(ctx, key)
	if err != nil {
		t.log.Warn("Failed to get config value", zap.String("key", key), zap.Error(err))
		return fallback
	}
	if !ok || value == "" {
		return fallback
	}
	return value
}

// show показывает меню шага, на который только что перешли
func (e *Engine) show(ctx context.Context, t *turn) ([]string, error) {
	body, err := e.render(ctx, t)
	if err != nil {
		return nil, err
	}
	return []string{body}, nil
}
