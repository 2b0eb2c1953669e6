package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/linemk/pricedesk/internal/config"
	"github.com/linemk/pricedesk/internal/service"
	"github.com/linemk/pricedesk/internal/storage"
	"github.com/linemk/pricedesk/internal/storage/schema"
)

const pingTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sqlx.DB
}

// NewApp создаёт новый экземпляр App и открывает пул соединений.
// Пул один на процесс и закрывается через Close.
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	// драйвер выбирается конфигом: lib/pq ("postgres") или pgx ("pgx")
	db, err := sqlx.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connected",
		slog.String("driver", cfg.Database.Driver),
		slog.String("host", cfg.Database.Host),
		slog.Int("max_open_conns", cfg.Database.MaxOpenConns),
	)
	return New(log, cfg, db), nil
}

// New собирает App поверх уже открытого пула
func New(log *slog.Logger, cfg *config.Config, db *sqlx.DB) *App {
	return &App{
		Config: cfg,
		Logger: log,
		DB:     db,
	}
}

// Close возвращает соединения пула
func (a *App) Close() error {
	return a.DB.Close()
}

// Migrator применяет встроенные миграции через отдельное соединение
func (a *App) Migrator() *schema.Migrator {
	return schema.NewMigrator(a.Logger, a.Config.Database.MigrateDSN(a.Config.Migrations.Table))
}

// Bootstrapper создает схему и заполняет справочники
func (a *App) Bootstrapper() *service.Bootstrapper {
	return service.NewBootstrapper(
		a.Logger,
		a.Config.Env,
		a.Migrator(),
		storage.NewTransactor(a.Logger, a.DB),
		storage.NewSeedRepository(),
		a.Config.Bootstrap.AdminUsername,
		a.Config.Bootstrap.AdminPassword,
	)
}
