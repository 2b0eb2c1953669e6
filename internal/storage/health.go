package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Prober проверяет доступность БД
type Prober interface {
	Probe(ctx context.Context) error
}

type healthRepository struct {
	db *sqlx.DB
}

func NewHealthRepository(db *sqlx.DB) Prober {
	return &healthRepository{db: db}
}

// Probe выполняет SELECT 1 через пул соединений
func (r *healthRepository) Probe(ctx context.Context) error {
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("database probe failed: %w", err)
	}
	return nil
}
