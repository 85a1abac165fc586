package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"employee-portal/internal/config"
	"employee-portal/internal/migrate"
	"employee-portal/internal/migrations"
	"employee-portal/internal/observability/logging"
	"employee-portal/pkg/db"
)

const serviceName = "employee-portal"

type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *gorm.DB
}

// bootstrap loads configuration, installs the default logger and opens the
// database. The caller owns closing the handle.
func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	gdb, err := db.Open(db.Config{URL: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &app{cfg: cfg, logger: logger, db: gdb}, nil
}

func (rt *app) close() {
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// migrationSource prefers an on-disk MIGRATIONS_DIR over the embedded set.
func (rt *app) migrationSource() (fs.FS, error) {
	if rt.cfg.MigrationsDir != "" {
		return os.DirFS(rt.cfg.MigrationsDir), nil
	}
	return migrations.ForDialect(db.Dialect(rt.cfg.DatabaseURL))
}

func (rt *app) migrator() (*migrate.Runner, error) {
	src, err := rt.migrationSource()
	if err != nil {
		return nil, err
	}
	return migrate.New(rt.db, src, rt.logger), nil
}

func (rt *app) migrateUp(ctx context.Context) error {
	runner, err := rt.migrator()
	if err != nil {
		return err
	}
	applied, err := runner.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	rt.logger.Info("migrations up to date", "applied", len(applied))
	return nil
}
