// Package schema применяет встроенные SQL-миграции через golang-migrate.
package schema

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator применяет и откатывает схему. Для golang-migrate открывается отдельное
// соединение по DSN: migrate.Close закрывает свою БД и не должен трогать общий пул.
type Migrator struct {
	dsn string
	log *slog.Logger
}

func NewMigrator(log *slog.Logger, dsn string) *Migrator {
	return &Migrator{dsn: dsn, log: log}
}

// Up применяет все новые миграции. Если схема уже актуальна, это не ошибка.
func (m *Migrator) Up(ctx context.Context) error {
	const op = "schema.Migrator.Up"
	logger := m.log.With(slog.String("op", op))

	err := m.run(ctx, func(mg *migrate.Migrate) error { return mg.Up() })
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("migrations applied successfully")
	return nil
}

// Down откатывает последнюю миграцию
func (m *Migrator) Down(ctx context.Context) error {
	const op = "schema.Migrator.Down"

	err := m.run(ctx, func(mg *migrate.Migrate) error { return mg.Steps(-1) })
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.log.Info("migration rolled back", slog.String("op", op))
	return nil
}

// Version возвращает текущую версию схемы; 0 - миграции еще не применялись
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	var (
		version uint
		dirty   bool
	)
	err := m.run(ctx, func(mg *migrate.Migrate) error {
		var err error
		version, dirty, err = mg.Version()
		return err
	})
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("schema.Migrator.Version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) run(ctx context.Context, fn func(mg *migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	mg, err := migrate.NewWithSourceInstance("iofs", src, m.dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	mg.Log = &migrateLogger{log: m.log}
	defer func() {
		srcErr, dbErr := mg.Close()
		if srcErr != nil || dbErr != nil {
			m.log.Warn("failed to close migrate", slog.Any("source_error", srcErr), slog.Any("db_error", dbErr))
		}
	}()

	// отмена контекста останавливает migrate после текущей миграции
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			mg.GracefulStop <- true
		case <-done:
		}
	}()

	return fn(mg)
}

// migrateLogger пишет сообщения golang-migrate в slog
type migrateLogger struct {
	log *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), slog.String("component", "migrate"))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
