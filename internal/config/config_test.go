package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/barbershop")
	t.Setenv("DATA_SOURCE", "")
	t.Setenv("STATE_STORE", "")
	t.Setenv("STATE_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DataSourcePostgres, cfg.DataSource)
	assert.Equal(t, StateStoreMemory, cfg.StateStore)
	assert.Equal(t, 24*time.Hour, cfg.StateTTL)
	assert.Equal(t, time.Hour, cfg.ReminderWindow)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("DATA_SOURCE", DataSourceAPI)
	t.Setenv("API_BASE_URL", "http://api:3000")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("STATE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Minute, cfg.StateTTL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without dsn", env: map[string]string{"DATA_SOURCE": DataSourcePostgres, "DB_DSN": ""}},
		{name: "unknown data source", env: map[string]string{"DATA_SOURCE": "sqlite"}},
		{name: "unknown state store", env: map[string]string{"DB_DSN": "x", "STATE_STORE": "file"}},
		{name: "bad ttl", env: map[string]string{"DB_DSN": "x", "STATE_TTL": "forever"}},
		{name: "bad timezone", env: map[string]string{"DB_DSN": "x", "TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
