package dialog

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/barbershop_bot/internal/conversation"
)

// render формирует меню текущего шага из сохранённых данных
func (e *Engine) render(ctx context.Context, t *turn) (string, error) {
	s := t.state

	switch s.Step {
	case conversation.StepMenu:
		return msgRootMenu, nil

	case conversation.StepMultiAppointmentMenu:
		if len(s.CandidateAppointments) == 0 {
			return "", missing(s.Step, "candidate appointments")
		}
		return fmt.Sprintf("👋 Olá! Você tem %d agendamentos futuros.\nDeseja:\n"+
			"1 - 🔄 Remarcar ou cancelar um deles\n"+
			"2 - 📅 Agendar outro horário\n"+
			backOption, len(s.CandidateAppointments)), nil

	case conversation.StepReminderOptions:
		if s.SelectedAppointment == nil {
			return "", missing(s.Step, "selected appointment")
		}
		a := s.SelectedAppointment
		start := a.StartAt.In(e.loc)
		return fmt.Sprintf("👋 Olá! Você tem um agendamento no dia %s às %s com o barbeiro %s.\nDeseja:\n"+
			"1 - 🔄 Remarcar\n"+
			"2 - ❌ Cancelar\n"+
			"3 - 📅 Agendar outro horário\n"+
			backOption,
			formatDay(start), start.Format("15:04"), barberName(e.barberNames(ctx, t), a.BarberID)), nil

	case conversation.StepManageSelectAppointment:
		if len(s.CandidateAppointments) == 0 {
			return "", missing(s.Step, "candidate appointments")
		}
		return appointmentList(s.CandidateAppointments, e.barberNames(ctx, t), e.loc), nil

	case conversation.StepManageSelectAction:
		if s.SelectedAppointment == nil {
			return "", missing(s.Step, "selected appointment")
		}
		a := s.SelectedAppointment
		return fmt.Sprintf("Agendamento de %s com %s.\nO que deseja fazer?\n"+
			"1 - 🔄 Remarcar horário\n"+
			"2 - ❌ Cancelar horário\n"+
			"3 - 💈 Remarcar com outro barbeiro\n"+
			backOption,
			formatDateTime(a.StartAt.In(e.loc)), barberName(e.barberNames(ctx, t), a.BarberID)), nil

	case conversation.StepBarberSelect:
		if len(s.BarberOptions) == 0 {
			return "", missing(s.Step, "barber options")
		}
		return barberMenu("Qual barbeiro você prefere?", s.BarberOptions), nil

	case conversation.StepRescheduleBarber:
		if s.SelectedAppointment == nil {
			return "", missing(s.Step, "selected appointment")
		}
		if len(s.BarberOptions) == 0 {
			return "", missing(s.Step, "barber options")
		}
		return barberMenu("Qual barbeiro você prefere para remarcar?", s.BarberOptions), nil

	case conversation.StepDateSelect, conversation.StepRescheduleDate:
		if s.Step.IsReschedule() && s.SelectedAppointment == nil {
			return "", missing(s.Step, "selected appointment")
		}
		if s.BarberID == 0 || len(s.AvailableDates) == 0 {
			return "", missing(s.Step, "barber or dates")
		}
		title := "📅 Para que dia deseja marcar?"
		if s.Step.IsReschedule() {
			title = "📅 Para que dia deseja remarcar?"
		}
		return dateMenu(title, s.AvailableDates, t.now), nil

	case conversation.StepTimeSelect, conversation.StepRescheduleTime:
		if s.Step.IsReschedule() && s.SelectedAppointment == nil {
			return "", missing(s.Step, "selected appointment")
		}
		if s.BarberID == 0 || s.Date == nil || len(s.AvailableTimes) == 0 {
			return "", missing(s.Step, "date or times")
		}
		return timeMenu(s.BarberName, *s.Date, s.AvailableTimes), nil

	case conversation.StepConfirm:
		if s.BarberID == 0 || s.Date == nil || s.Time == nil {
			return "", missing(s.Step, "barber, date or time")
		}
		return fmt.Sprintf("✅ Confirmando:\nBarbeiro: %s\nDia: %s às %s\n\n1 - Confirmar\n0 - Cancelar",
			s.BarberName, formatDay(*s.Date), s.Time), nil

	case conversation.StepRescheduleConfirm:
		if s.SelectedAppointment == nil || s.BarberID == 0 || s.Date == nil || s.Time == nil {
			return "", missing(s.Step, "appointment, barber, date or time")
		}
		return fmt.Sprintf("✅ Confirmando nova data:\nDe: %s\nBarbeiro: %s\nDia: %s às %s\n\n1 - Confirmar remarcação\n0 - Cancelar",
			formatDateTime(s.SelectedAppointment.StartAt.In(e.loc)), s.BarberName, formatDay(*s.Date), s.Time), nil

	default:
		return "", fmt.Errorf("%w: unknown step %q", ErrInternalState, s.Step)
	}
}
