package conversation

// Step текущий шаг диалога
type Step string

const (
	StepMenu                    Step = "MENU"
	StepMultiAppointmentMenu    Step = "MULTI_APPOINTMENT_MENU"
	StepReminderOptions         Step = "REMINDER_OPTIONS"
	StepManageSelectAppointment Step = "MANAGE_SELECT_APPOINTMENT"
	StepManageSelectAction      Step = "MANAGE_SELECT_ACTION"
	StepBarberSelect            Step = "BARBER_SELECT"
	StepDateSelect              Step = "DATE_SELECT"
	StepTimeSelect              Step = "TIME_SELECT"
	StepConfirm                 Step = "CONFIRM"
	StepRescheduleBarber        Step = "RESCHEDULE_BARBER"
	StepRescheduleDate          Step = "RESCHEDULE_DATE"
	StepRescheduleTime          Step = "RESCHEDULE_TIME"
	StepRescheduleConfirm       Step = "RESCHEDULE_CONFIRM"
)

// AllSteps полный набор шагов
var AllSteps = []Step{
	StepMenu,
	StepMultiAppointmentMenu,
	StepReminderOptions,
	StepManageSelectAppointment,
	StepManageSelectAction,
	StepBarberSelect,
	StepDateSelect,
	StepTimeSelect,
	StepConfirm,
	StepRescheduleBarber,
	StepRescheduleDate,
	StepRescheduleTime,
	StepRescheduleConfirm,
}

func (s Step) String() string {
	return string(s)
}

// Valid проверяет, что шаг входит в известный набор
func (s Step) Valid() bool {
	for _, step := range AllSteps {
		if s == step {
			return true
		}
	}
	return false
}

// IsReschedule возвращает true для шагов ветки переноса записи
func (s Step) IsReschedule() bool {
	switch s {
	case StepRescheduleBarber, StepRescheduleDate, StepRescheduleTime, StepRescheduleConfirm:
		return true
	}
	return false
}
