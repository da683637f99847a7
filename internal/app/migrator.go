package app

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/Freeeeeet/barbershop_bot/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrator обёртка над goose
type Migrator struct {
	db     *sql.DB
	dir    string
	logger *zap.Logger
}

// NewMigrator создаёт мигратор. Пустой migrationsPath означает встроенные миграции
func NewMigrator(pool *pgxpool.Pool, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	var base fs.FS
	dir := migrationsPath
	if dir == "" {
		base = migrations.FS
		dir = "."
	}
	goose.SetBaseFS(base)

	// Goose работает с *sql.DB, поэтому создаём его из пула
	return &Migrator{
		db:     stdlib.OpenDBFromPool(pool),
		dir:    dir,
		logger: logger,
	}, nil
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	mg.logger.Info("🔄 Applying database migrations", zap.String("dir", mg.dir))

	if err := goose.UpContext(ctx, mg.db, mg.dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := mg.Version(ctx)
	if err != nil {
		return err
	}

	mg.logger.Info("✅ Migrations applied", zap.Int64("version", version))
	return nil
}

// Version показывает текущую версию схемы
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Close закрывает sql.DB мигратора, пул остаётся открытым
func (mg *Migrator) Close() error {
	if mg.db != nil {
		return mg.db.Close()
	}
	return nil
}
