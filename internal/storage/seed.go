package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/linemk/pricedesk/internal/domain/models"
)

// ключ advisory lock, под которым выполняется заполнение справочников
const seedLockKey int64 = 73012024

// таблицы справочников, которые можно проверять на пустоту
const (
	TableStores       = "stores"
	TableCategories   = "categories"
	TableCosts        = "costs"
	TableMarketplaces = "marketplaces"
)

var seedTables = map[string]struct{}{
	TableStores:       {},
	TableCategories:   {},
	TableCosts:        {},
	TableMarketplaces: {},
}

// SeedStorage - запросы начального заполнения БД. Все методы работают внутри одной транзакции.
type SeedStorage interface {
	// AcquireSeedLock сериализует параллельные запуски seed до конца транзакции
	AcquireSeedLock(ctx context.Context, tx *sqlx.Tx) error
	UserExistsTx(ctx context.Context, tx *sqlx.Tx, username string) (bool, error)
	CreateUserTx(ctx context.Context, tx *sqlx.Tx, user *models.User) (int64, error)
	// TableEmptyTx проверяет, пуста ли таблица справочника
	TableEmptyTx(ctx context.Context, tx *sqlx.Tx, table string) (bool, error)
	InsertStoresTx(ctx context.Context, tx *sqlx.Tx, stores []models.Store) error
	InsertCategoriesTx(ctx context.Context, tx *sqlx.Tx, categories []models.Category) error
	InsertCostsTx(ctx context.Context, tx *sqlx.Tx, costs []models.Cost) error
	InsertMarketplacesTx(ctx context.Context, tx *sqlx.Tx, marketplaces []models.Marketplace) error
}

type seedRepository struct{}

func NewSeedRepository() SeedStorage {
	return &seedRepository{}
}

func (r *seedRepository) AcquireSeedLock(ctx context.Context, tx *sqlx.Tx) error {
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", seedLockKey); err != nil {
		return fmt.Errorf("failed to acquire seed lock: %w", err)
	}
	return nil
}

func (r *seedRepository) UserExistsTx(ctx context.Context, tx *sqlx.Tx, username string) (bool, error) {
	var exists bool
	if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username); err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (r *seedRepository) CreateUserTx(ctx context.Context, tx *sqlx.Tx, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, password, name, email, role)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5) RETURNING id`
	var id int64
	err := tx.QueryRowxContext(ctx, query, user.Username, string(user.PassHash), user.Name, user.Email, user.Role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

func (r *seedRepository) TableEmptyTx(ctx context.Context, tx *sqlx.Tx, table string) (bool, error) {
	// имя таблицы не параметризуется, поэтому только из белого списка
	if _, ok := seedTables[table]; !ok {
		return false, fmt.Errorf("table %q is not a seed table", table)
	}
	var empty bool
	if err := tx.GetContext(ctx, &empty, "SELECT NOT EXISTS(SELECT 1 FROM "+table+")"); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return empty, nil
}

func (r *seedRepository) InsertStoresTx(ctx context.Context, tx *sqlx.Tx, stores []models.Store) error {
	for _, s := range stores {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO stores (name, address, phone) VALUES ($1, $2, $3)",
			s.Name, s.Address, s.Phone,
		); err != nil {
			return fmt.Errorf("failed to insert store %q: %w", s.Name, err)
		}
	}
	return nil
}

func (r *seedRepository) InsertCategoriesTx(ctx context.Context, tx *sqlx.Tx, categories []models.Category) error {
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO categories (name, description) VALUES ($1, $2)",
			c.Name, c.Description,
		); err != nil {
			return fmt.Errorf("failed to insert category %q: %w", c.Name, err)
		}
	}
	return nil
}

func (r *seedRepository) InsertCostsTx(ctx context.Context, tx *sqlx.Tx, costs []models.Cost) error {
	for _, c := range costs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO costs (name, value, type, description) VALUES ($1, $2, $3, $4)",
			c.Name, c.Value, c.Type, c.Description,
		); err != nil {
			return fmt.Errorf("failed to insert cost %q: %w", c.Name, err)
		}
	}
	return nil
}

func (r *seedRepository) InsertMarketplacesTx(ctx context.Context, tx *sqlx.Tx, marketplaces []models.Marketplace) error {
	for _, m := range marketplaces {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO marketplaces (name, fee, description) VALUES ($1, $2, $3)",
			m.Name, m.Fee, m.Description,
		); err != nil {
			return fmt.Errorf("failed to insert marketplace %q: %w", m.Name, err)
		}
	}
	return nil
}
