package conversation

import (
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/model"
)

// BarberOption пункт списка барберов. Номер в меню = индекс + 1
type BarberOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// State состояние диалога одного пользователя
type State struct {
	Step    Step    `json:"step"`
	History History `json:"history"`

	BarberID   int64            `json:"barber_id,omitempty"`
	BarberName string           `json:"barber_name,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Time       *model.TimeOfDay `json:"time,omitempty"`

	BarberOptions         []BarberOption       `json:"barber_options,omitempty"`
	CandidateAppointments []*model.Appointment `json:"candidate_appointments,omitempty"`
	SelectedAppointment   *model.Appointment   `json:"selected_appointment,omitempty"`
	AvailableDates        []time.Time          `json:"available_dates,omitempty"`
	AvailableTimes        []model.TimeOfDay    `json:"available_times,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewState начальное состояние {MENU, []}
func NewState() *State {
	return &State{
		Step:    StepMenu,
		History: History{},
	}
}

// Advance переходит на шаг next, запоминая текущий в истории
func (s *State) Advance(next Step) {
	s.History.PushIfEligible(s.Step, next)
	s.Step = next
}

// GoBack возвращается на предыдущий шаг (или в MENU)
func (s *State) GoBack() Step {
	s.Step = s.History.PopOrRoot()
	return s.Step
}

// SelectedBarber возвращает барбера по номеру пункта меню
func (s *State) SelectedBarber(choice int) (BarberOption, bool) {
	if choice < 1 || choice > len(s.BarberOptions) {
		return BarberOption{}, false
	}
	return s.BarberOptions[choice-1], true
}

// Clone делает глубокую копию состояния
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.History = append(History{}, s.History...)
	if s.Date != nil {
		d := *s.Date
		c.Date = &d
	}
	if s.Time != nil {
		t := *s.Time
		c.Time = &t
	}
	c.BarberOptions = append([]BarberOption(nil), s.BarberOptions...)
	c.AvailableDates = append([]time.Time(nil), s.AvailableDates...)
	c.AvailableTimes = append([]model.TimeOfDay(nil), s.AvailableTimes...)
	if s.CandidateAppointments != nil {
		c.CandidateAppointments = make([]*model.Appointment, len(s.CandidateAppointments))
		for i, a := range s.CandidateAppointments {
			copied := *a
			c.CandidateAppointments[i] = &copied
		}
	}
	if s.SelectedAppointment != nil {
		copied := *s.SelectedAppointment
		c.SelectedAppointment = &copied
	}
	return &c
}
