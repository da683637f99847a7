package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store объединяет все репозитории сервиса данных в одно хранилище
type Store struct {
	*BarberRepository
	*AppointmentRepository
	*BusinessHoursRepository
	*SettingsRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		BarberRepository:        NewBarberRepository(pool),
		AppointmentRepository:   NewAppointmentRepository(pool),
		BusinessHoursRepository: NewBusinessHoursRepository(pool),
		SettingsRepository:      NewSettingsRepository(pool),
	}
}
