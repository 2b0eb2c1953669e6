package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/pricedesk/internal/storage"
)

type HealthServiceInterface interface {
	CheckDatabase(ctx context.Context) error
}

type HealthService struct {
	log    *slog.Logger
	prober storage.Prober
}

func NewHealthService(log *slog.Logger, prober storage.Prober) *HealthService {
	return &HealthService{log: log, prober: prober}
}

// CheckDatabase проверяет, что пул может выполнить запрос
func (s *HealthService) CheckDatabase(ctx context.Context) error {
	const op = "service.HealthService.CheckDatabase"
	if err := s.prober.Probe(ctx); err != nil {
		s.log.Error("database check failed", slog.String("op", op), slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
