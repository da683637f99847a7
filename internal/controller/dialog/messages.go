package dialog

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/conversation"
	"github.com/Freeeeeet/barbershop_bot/internal/model"
)

// Тексты сообщений бота (на португальском, язык клиентов барбершопа)
const (
	msgRootMenu = "👋 Olá! Sou o assistente virtual da Barbearia. Escolha:\n" +
		"1 - 📅 Agendar horário\n" +
		"2 - 💈 Valores\n" +
		"3 - 📌 Localização\n" +
		"4 - 🔄 Remarcar ou Cancelar horário"

	msgInvalidOption  = "❌ Opção inválida. Por favor, escolha uma das opções listadas."
	msgInvalidConfirm = "❌ Opção inválida. Confirme com 1 ou cancele com 0."
	msgInvalidDate    = "❌ Data inválida. Escolha um número da lista ou use o formato DD/MM."
	msgDateOutOfRange = "❌ Data inválida ou fora dos próximos 7 dias. Escolha uma data da lista."
	msgAlreadyAtMenu  = "ℹ️ Você já está no menu principal."
	msgBackToMenu     = "🔙 Voltando ao menu."
	msgRestarted      = "🔄 Conversa reiniciada."

	msgNoBarbers          = "😕 Nenhum barbeiro disponível no momento. Tente novamente mais tarde."
	msgNoFutureAppts      = "❌ Você não possui agendamentos futuros."
	msgNoTimes            = "❌ Nenhum horário disponível neste dia. Tente outro dia."
	msgTimePassed         = "❌ Você não pode agendar para um horário que já passou. Escolha outro."
	msgSlotTaken          = "❌ Este horário acabou de ser ocupado. Por favor, escolha outro."
	msgBookingCancelled   = "❌ Agendamento cancelado.\nEnvie \"menu\" para recomeçar."
	msgRescheduleCanceled = "❌ Remarcação cancelada.\nEnvie \"menu\" para recomeçar."
	msgSaveFailed         = "❌ Erro ao salvar agendamento. Tente novamente enviando 1."
	msgRescheduleFailed   = "❌ Erro ao remarcar. Tente novamente enviando 1."
	msgApptGone           = "❌ Este agendamento não existe mais.\nEnvie \"menu\" para recomeçar."
	msgAlreadyCancelled   = "ℹ️ Este agendamento já havia sido cancelado."
	msgCancelFailed       = "❌ Não foi possível cancelar agora. Tente novamente mais tarde."
	msgGenericFailure     = "⚠️ Desculpe, algo deu errado. Vamos recomeçar.\nEnvie \"menu\" para ver as opções."

	defaultDescription = "Informação não disponível."
	defaultAddress     = "📌 Estamos na Rua Fictícia, 123 - Centro."

	unknownBarber = "Barbeiro desconhecido"
	defaultClient = "Cliente"
)

const backOption = "0 - 🔙 Voltar"

var weekdayShort = [...]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

func formatDay(d time.Time) string {
	return d.Format("02/01")
}

func formatDateTime(t time.Time) string {
	return t.Format("02/01 15:04")
}

func withPrefix(prefix, body string) string {
	return prefix + "\n\n" + body
}

func barberMenu(title string, options []conversation.BarberOption) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, opt := range options {
		fmt.Fprintf(&b, "%d - %s\n", i+1, opt.Name)
	}
	b.WriteString(backOption)
	return b.String()
}

func dateMenu(title string, dates []time.Time, today time.Time) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, d := range dates {
		fmt.Fprintf(&b, "%d - %s %s", i+1, weekdayShort[d.Weekday()], formatDay(d))
		if model.SameDate(d, today) {
			b.WriteString(" (hoje)")
		}
		b.WriteString("\n")
	}
	b.WriteString("Responda com o número ou no formato DD/MM.\n")
	b.WriteString(backOption)
	return b.String()
}

func timeMenu(barberName string, date time.Time, times []model.TimeOfDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Horários disponíveis com %s em %s:\n", barberName, formatDay(date))
	for i, t := range times {
		fmt.Fprintf(&b, "%d - %s\n", i+1, t)
	}
	b.WriteString(backOption)
	return b.String()
}

func appointmentList(appts []*model.Appointment, names map[int64]string, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("Seus agendamentos:\n")
	for i, a := range appts {
		fmt.Fprintf(&b, "%d - %s em %s\n", i+1, barberName(names, a.BarberID), formatDateTime(a.StartAt.In(loc)))
	}
	b.WriteString(backOption)
	return b.String()
}

func barberName(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return unknownBarber
}
