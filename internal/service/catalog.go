package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/linemk/pricedesk/internal/storage"
)

type CatalogServiceInterface interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListMarketplaces(ctx context.Context) ([]models.Marketplace, error)
	ListStores(ctx context.Context) ([]models.Store, error)
}

// CatalogService отдает справочники для формы товара
type CatalogService struct {
	log     *slog.Logger
	catalog storage.CatalogStorage
}

func NewCatalogService(log *slog.Logger, catalog storage.CatalogStorage) *CatalogService {
	return &CatalogService{log: log, catalog: catalog}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "service.CatalogService.ListCategories"
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s *CatalogService) ListMarketplaces(ctx context.Context) ([]models.Marketplace, error) {
	const op = "service.CatalogService.ListMarketplaces"
	marketplaces, err := s.catalog.ListMarketplaces(ctx)
	if err != nil {
		s.log.Error("failed to list marketplaces", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return marketplaces, nil
}

func (s *CatalogService) ListStores(ctx context.Context) ([]models.Store, error) {
	const op = "service.CatalogService.ListStores"
	stores, err := s.catalog.ListStores(ctx)
	if err != nil {
		s.log.Error("failed to list stores", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stores, nil
}
