package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/barbershop_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository хранит текстовые настройки барбершопа (описание, адрес)
type SettingsRepository struct {
	*base.Repository
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{Repository: base.NewRepository(pool)}
}

// GetConfigValue получает значение настройки. ok=false, если ключ не задан
func (r *SettingsRepository) GetConfigValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if base.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

// SetConfigValue создаёт или обновляет настройку
func (r *SettingsRepository) SetConfigValue(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := r.ExecAffected(ctx, query, key, value); err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
