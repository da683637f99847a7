package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/barbershop_bot/internal/apiclient"
	"github.com/Freeeeeet/barbershop_bot/internal/app"
	"github.com/Freeeeeet/barbershop_bot/internal/availability"
	"github.com/Freeeeeet/barbershop_bot/internal/config"
	"github.com/Freeeeeet/barbershop_bot/internal/controller"
	"github.com/Freeeeeet/barbershop_bot/internal/controller/dialog"
	"github.com/Freeeeeet/barbershop_bot/internal/conversation"
	"github.com/Freeeeeet/barbershop_bot/internal/events"
	"github.com/Freeeeeet/barbershop_bot/internal/repository"
	"github.com/Freeeeeet/barbershop_bot/internal/service"
	"github.com/go-redis/redis/v8"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// backend всё, что бот читает и пишет во внешнем хранилище
type backend interface {
	dialog.Directory
	service.SlotLister
	service.AppointmentWriter
	service.ReminderStore
}

// directBackend работает с PostgreSQL напрямую, слоты считает локально
type directBackend struct {
	*repository.Store
	*availability.Resolver
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, "barbershop-bot")
	defer logger.Sync()

	logger.Info("Starting barbershop bot",
		zap.String("environment", cfg.Environment),
		zap.String("data_source", cfg.DataSource),
		zap.String("state_store", cfg.StateStore),
		zap.Int("token_length", len(cfg.TelegramToken)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	loc := cfg.Location()

	data, closeData, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeData()

	states, sweeper, closeStates, err := newStateStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStates()

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	booking := service.NewBookingService(data, data, publisher, logger)
	engine := dialog.NewEngine(conversation.NewManager(states), data, data, booking, loc, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	botController := controller.NewBotController(b, engine, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands were not set", zap.Error(err))
	}

	reminders := service.NewReminderService(data, botController, publisher, cfg.ReminderWindow, loc, logger)
	scheduler := app.NewScheduler(reminders, sweeper, cfg.ReminderInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Start(gctx)
		<-gctx.Done()
		scheduler.Stop()
		return nil
	})
	g.Go(func() error {
		return botController.Start(gctx)
	})

	return g.Wait()
}

// newBackend выбирает источник данных по DATA_SOURCE
func newBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (backend, func(), error) {
	if cfg.DataSource == config.DataSourceAPI {
		logger.Info("Using data service", zap.String("base_url", cfg.APIBaseURL))
		return apiclient.NewClient(cfg.APIBaseURL, cfg.APIKey, logger), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	store := repository.NewStore(pool)
	return &directBackend{
		Store:    store,
		Resolver: availability.NewResolver(store, cfg.Location()),
	}, pool.Close, nil
}

// newStateStore выбирает хранилище диалогов по STATE_STORE
func newStateStore(ctx context.Context, cfg *config.Config) (conversation.Store, app.Sweeper, func(), error) {
	if cfg.StateStore == config.StateStoreRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return conversation.NewRedisStore(client, cfg.StateTTL), nil, func() { client.Close() }, nil
	}

	store := conversation.NewMemoryStore(cfg.StateTTL)
	return store, store, func() {}, nil
}

func newPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	logger.Info("Publishing appointment events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
}
