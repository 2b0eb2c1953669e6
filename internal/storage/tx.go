package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Transactor - единая обертка над транзакциями.
// Соединение берется из пула на BeginTx и возвращается в пул на Commit/Rollback,
// поэтому оно освобождается на любом пути выхода.
type Transactor struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewTransactor(log *slog.Logger, db *sqlx.DB) *Transactor {
	return &Transactor{db: db, log: log}
}

// WithinTx выполняет fn в транзакции: коммит при успехе, откат при ошибке или панике.
// Ошибка fn возвращается как есть, чтобы вызывающий мог проверить её через errors.Is.
func (t *Transactor) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	const op = "storage.Transactor.WithinTx"

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			t.rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		t.rollback(tx)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

func (t *Transactor) rollback(tx *sqlx.Tx) {
	if rbErr := tx.Rollback(); rbErr != nil {
		t.log.Error("transaction rollback failed", slog.Any("error", rbErr))
	}
}
