package model

import "time"

// BusinessHours описывает рабочий день барбершопа: открытие, закрытие и шаг слотов
type BusinessHours struct {
	Weekday         time.Weekday `json:"weekday"`
	Open            TimeOfDay    `json:"open"`
	Close           TimeOfDay    `json:"close"`
	IntervalMinutes int          `json:"interval_minutes"`
	Closed          bool         `json:"closed"` // В этот день барбершоп не работает
}

// DefaultBusinessHours сетка по умолчанию, если день недели не настроен: каждый час с 09:00 до 21:00
func DefaultBusinessHours(weekday time.Weekday) *BusinessHours {
	return &BusinessHours{
		Weekday:         weekday,
		Open:            NewTimeOfDay(9, 0),
		Close:           NewTimeOfDay(22, 0),
		IntervalMinutes: 60,
	}
}

// Slots генерирует время начала всех слотов, которые помещаются до закрытия
func (h *BusinessHours) Slots() []TimeOfDay {
	if h.Closed || h.IntervalMinutes <= 0 || h.Close <= h.Open {
		return nil
	}

	step := TimeOfDay(h.IntervalMinutes)
	var slots []TimeOfDay
	for t := h.Open; t+step <= h.Close; t += step {
		slots = append(slots, t)
	}
	return slots
}
