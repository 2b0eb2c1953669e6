package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/linemk/pricedesk/internal/domain/models"
)

// CatalogStorage описывает справочники: категории, площадки, магазины, расходы.
type CatalogStorage interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListMarketplaces(ctx context.Context) ([]models.Marketplace, error)
	ListStores(ctx context.Context) ([]models.Store, error)
	ListCosts(ctx context.Context) ([]models.Cost, error)
	// CategoryExistsTx проверяет категорию внутри транзакции создания товара
	CategoryExistsTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error)
}

type catalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) CatalogStorage {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, COALESCE(description, '') AS description, created_at, updated_at
		FROM categories ORDER BY id`
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *catalogRepository) ListMarketplaces(ctx context.Context) ([]models.Marketplace, error) {
	marketplaces := []models.Marketplace{}
	query := `SELECT id, name, fee, COALESCE(description, '') AS description, created_at, updated_at
		FROM marketplaces ORDER BY id`
	if err := r.db.SelectContext(ctx, &marketplaces, query); err != nil {
		return nil, fmt.Errorf("failed to list marketplaces: %w", err)
	}
	return marketplaces, nil
}

func (r *catalogRepository) ListStores(ctx context.Context) ([]models.Store, error) {
	stores := []models.Store{}
	query := `SELECT id, name, COALESCE(address, '') AS address, COALESCE(phone, '') AS phone, created_at, updated_at
		FROM stores ORDER BY id`
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

func (r *catalogRepository) ListCosts(ctx context.Context) ([]models.Cost, error) {
	costs := []models.Cost{}
	query := `SELECT id, name, value, type, COALESCE(description, '') AS description, created_at, updated_at
		FROM costs ORDER BY id`
	if err := r.db.SelectContext(ctx, &costs, query); err != nil {
		return nil, fmt.Errorf("failed to list costs: %w", err)
	}
	return costs, nil
}

func (r *catalogRepository) CategoryExistsTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var exists bool
	if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}
