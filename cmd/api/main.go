package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/barbershop_bot/internal/app"
	"github.com/Freeeeeet/barbershop_bot/internal/availability"
	"github.com/Freeeeeet/barbershop_bot/internal/config"
	"github.com/Freeeeeet/barbershop_bot/internal/httpapi"
	"github.com/Freeeeeet/barbershop_bot/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DBDSN == "" {
		log.Fatalf("DB_DSN is required for the data service")
	}

	logger := app.NewLogger(cfg.Environment, "barbershop-api")
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Data service stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Data service stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	logger.Info("✅ Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	store := repository.NewStore(pool)
	resolver := availability.NewResolver(store, cfg.Location())
	handler := httpapi.NewHandler(store, resolver, pool, cfg.Location(), logger)

	if cfg.APIKey == "" {
		logger.Warn("API_KEY is empty, requests are not authenticated")
	}

	srv := &http.Server{
		Addr:         cfg.APIAddr,
		Handler:      httpapi.NewRouter(handler, cfg.APIKey, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("🚀 Data service listening", zap.String("addr", cfg.APIAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down data service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	})

	return g.Wait()
}
