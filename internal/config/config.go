package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Источник данных бота: напрямую PostgreSQL или REST API сервиса данных
const (
	DataSourcePostgres = "postgres"
	DataSourceAPI      = "api"
)

// Хранилище состояний диалогов
const (
	StateStoreMemory = "memory"
	StateStoreRedis  = "redis"
)

type Config struct {
	Environment   string
	TelegramToken string
	DBDSN         string
	Timezone      string

	DataSource string
	APIBaseURL string
	APIKey     string
	APIAddr    string

	StateStore    string
	StateTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	ReminderWindow   time.Duration
	ReminderInterval time.Duration

	MigrationsPath string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    getEnv("ENV", "development"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Timezone:       getEnv("TIMEZONE", "America/Sao_Paulo"),
		DataSource:     getEnv("DATA_SOURCE", DataSourcePostgres),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:3000"),
		APIKey:         os.Getenv("API_KEY"),
		APIAddr:        getEnv("API_ADDR", ":3000"),
		StateStore:     getEnv("STATE_STORE", StateStoreMemory),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "appointment.events"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.StateTTL, err = getEnvDuration("STATE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderWindow, err = getEnvDuration("REMINDER_WINDOW", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ReminderInterval, err = getEnvDuration("REMINDER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// validate проверяет обязательные поля и допустимые значения
func (c *Config) validate() error {
	switch c.DataSource {
	case DataSourcePostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for DATA_SOURCE=%s", DataSourcePostgres)
		}
	case DataSourceAPI:
		if c.APIBaseURL == "" {
			return fmt.Errorf("API_BASE_URL is required for DATA_SOURCE=%s", DataSourceAPI)
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}

	switch c.StateStore {
	case StateStoreMemory, StateStoreRedis:
	default:
		return fmt.Errorf("unknown STATE_STORE %q", c.StateStore)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	return nil
}

// Location возвращает часовой пояс барбершопа
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
