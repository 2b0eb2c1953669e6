package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/shopspring/decimal"
)

// ProductFilter - фильтры списка товаров, пустые поля не применяются
type ProductFilter struct {
	CategoryID *int64
	Search     string
}

// ProductStorage описывает методы для работы с товарами и их ценами.
type ProductStorage interface {
	// CreateProductTx вставляет товар и возвращает его id
	CreateProductTx(ctx context.Context, tx *sqlx.Tx, p *models.Product) (int64, error)
	// CreateProductPriceTx вставляет цену товара для площадки
	CreateProductPriceTx(ctx context.Context, tx *sqlx.Tx, productID, marketplaceID int64, price decimal.Decimal) error
	// UpsertProductPriceTx вставляет или перезаписывает цену (последняя запись побеждает)
	UpsertProductPriceTx(ctx context.Context, tx *sqlx.Tx, productID, marketplaceID int64, price decimal.Decimal) error
	ProductExistsTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.ProductListItem, error)
	GetProductByID(ctx context.Context, id int64) (*models.ProductListItem, error)
	// ListProductPrices возвращает цены товара с названием и комиссией площадки
	ListProductPrices(ctx context.Context, productID int64) ([]models.MarketplacePrice, error)
}

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProductTx(ctx context.Context, tx *sqlx.Tx, p *models.Product) (int64, error) {
	query := `INSERT INTO products (name, sku, category_id, base_price, description, has_variants)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := tx.QueryRowxContext(ctx, query, p.Name, p.SKU, p.CategoryID, p.BasePrice, p.Description, p.HasVariants).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrCategoryNotFound
		}
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (r *productRepository) CreateProductPriceTx(ctx context.Context, tx *sqlx.Tx, productID, marketplaceID int64, price decimal.Decimal) error {
	query := `INSERT INTO product_prices (product_id, marketplace_id, price)
	          VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, query, productID, marketplaceID, price); err != nil {
		return mapPriceError(err, marketplaceID)
	}
	return nil
}

func (r *productRepository) UpsertProductPriceTx(ctx context.Context, tx *sqlx.Tx, productID, marketplaceID int64, price decimal.Decimal) error {
	query := `INSERT INTO product_prices (product_id, marketplace_id, price)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (product_id, marketplace_id) DO UPDATE SET price = EXCLUDED.price, updated_at = NOW()`
	if _, err := tx.ExecContext(ctx, query, productID, marketplaceID, price); err != nil {
		return mapPriceError(err, marketplaceID)
	}
	return nil
}

func mapPriceError(err error, marketplaceID int64) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: id %d", ErrMarketplaceNotFound, marketplaceID)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: id %d", ErrDuplicatePrice, marketplaceID)
	default:
		return fmt.Errorf("failed to save product price: %w", err)
	}
}

func (r *productRepository) ProductExistsTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var exists bool
	if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("failed to check product: %w", err)
	}
	return exists, nil
}

const selectProduct = `
		SELECT p.id, p.name, COALESCE(p.sku, '') AS sku, p.category_id, p.base_price,
		       COALESCE(p.description, '') AS description, p.has_variants, p.created_at, p.updated_at,
		       c.name AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id`

// ListProducts возвращает товары с названием категории, новые первыми.
// Поиск - подстрока в name или sku без учета регистра.
func (r *productRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.ProductListItem, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.sku ILIKE $%d)", len(args), len(args)))
	}

	query := selectProduct
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY p.created_at DESC, p.id DESC"

	products := []models.ProductListItem{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.ProductListItem, error) {
	product := &models.ProductListItem{}
	if err := r.db.GetContext(ctx, product, selectProduct+"\n\t\tWHERE p.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (r *productRepository) ListProductPrices(ctx context.Context, productID int64) ([]models.MarketplacePrice, error) {
	query := `
		SELECT pp.marketplace_id, m.name AS marketplace_name, m.fee, pp.price
		FROM product_prices pp
		JOIN marketplaces m ON m.id = pp.marketplace_id
		WHERE pp.product_id = $1
		ORDER BY pp.marketplace_id`
	prices := []models.MarketplacePrice{}
	if err := r.db.SelectContext(ctx, &prices, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list product prices: %w", err)
	}
	return prices, nil
}

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE, чтобы поиск был по подстроке
func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}
