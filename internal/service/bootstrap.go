package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/linemk/pricedesk/internal/lib/logger"
	"github.com/linemk/pricedesk/internal/storage"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminPassword - пароль администратора из начального заполнения, его нужно сменить
const DefaultAdminPassword = "admin123"

// SchemaMigrator применяет схему БД (schema.Migrator)
type SchemaMigrator interface {
	Up(ctx context.Context) error
}

// SeedReport - что было добавлено при заполнении
type SeedReport struct {
	AdminCreated bool `json:"admin_created"`
	Stores       int  `json:"stores"`
	Categories   int  `json:"categories"`
	Costs        int  `json:"costs"`
	Marketplaces int  `json:"marketplaces"`
}

// Empty - ничего не добавлено, БД уже была заполнена
func (r *SeedReport) Empty() bool {
	return !r.AdminCreated && r.Stores == 0 && r.Categories == 0 && r.Costs == 0 && r.Marketplaces == 0
}

type BootstrapperInterface interface {
	Run(ctx context.Context) (*SeedReport, error)
}

// Bootstrapper создает схему и заполняет справочники значениями по умолчанию.
// Повторный запуск ничего не меняет.
type Bootstrapper struct {
	log           *slog.Logger
	env           string
	migrator      SchemaMigrator
	tx            TxRunner
	seed          storage.SeedStorage
	adminUsername string
	adminPassword string
}

func NewBootstrapper(
	log *slog.Logger,
	env string,
	migrator SchemaMigrator,
	tx TxRunner,
	seed storage.SeedStorage,
	adminUsername, adminPassword string,
) *Bootstrapper {
	return &Bootstrapper{
		log:           log,
		env:           env,
		migrator:      migrator,
		tx:            tx,
		seed:          seed,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// Run применяет миграции, затем выполняет Seed
func (b *Bootstrapper) Run(ctx context.Context) (*SeedReport, error) {
	const op = "service.Bootstrapper.Run"

	if err := b.migrator.Up(ctx); err != nil {
		b.log.Error("failed to apply schema", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to apply schema: %w", op, err)
	}
	return b.Seed(ctx)
}

// Seed добавляет администратора и справочники. Все выполняется в одной транзакции
// под advisory lock, каждый справочник заполняется, только если его таблица пуста.
func (b *Bootstrapper) Seed(ctx context.Context) (*SeedReport, error) {
	const op = "service.Bootstrapper.Seed"
	log := b.log.With(slog.String("op", op))

	report := &SeedReport{}
	err := b.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		*report = SeedReport{}

		if err := b.seed.AcquireSeedLock(ctx, tx); err != nil {
			return err
		}

		created, err := b.seedAdmin(ctx, tx)
		if err != nil {
			return err
		}
		report.AdminCreated = created

		steps := []struct {
			table  string
			count  *int
			insert func() (int, error)
		}{
			{storage.TableStores, &report.Stores, func() (int, error) {
				rows := defaultStores()
				return len(rows), b.seed.InsertStoresTx(ctx, tx, rows)
			}},
			{storage.TableCategories, &report.Categories, func() (int, error) {
				rows := defaultCategories()
				return len(rows), b.seed.InsertCategoriesTx(ctx, tx, rows)
			}},
			{storage.TableCosts, &report.Costs, func() (int, error) {
				rows := defaultCosts()
				return len(rows), b.seed.InsertCostsTx(ctx, tx, rows)
			}},
			{storage.TableMarketplaces, &report.Marketplaces, func() (int, error) {
				rows := defaultMarketplaces()
				return len(rows), b.seed.InsertMarketplacesTx(ctx, tx, rows)
			}},
		}

		for _, step := range steps {
			empty, err := b.seed.TableEmptyTx(ctx, tx, step.table)
			if err != nil {
				return err
			}
			if !empty {
				continue
			}
			n, err := step.insert()
			if err != nil {
				return err
			}
			*step.count = n
		}
		return nil
	})
	if err != nil {
		log.Error("seed failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if report.Empty() {
		log.Info("database already seeded")
	} else {
		log.Info("database seeded",
			slog.Bool("admin_created", report.AdminCreated),
			slog.Int("stores", report.Stores),
			slog.Int("categories", report.Categories),
			slog.Int("costs", report.Costs),
			slog.Int("marketplaces", report.Marketplaces),
		)
	}
	return report, nil
}

func (b *Bootstrapper) seedAdmin(ctx context.Context, tx *sqlx.Tx) (bool, error) {
	exists, err := b.seed.UserExistsTx(ctx, tx, b.adminUsername)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(b.adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Username: b.adminUsername,
		PassHash: passHash,
		Name:     "Administrator",
		Role:     models.RoleAdmin,
	}
	if _, err := b.seed.CreateUserTx(ctx, tx, admin); err != nil {
		return false, err
	}

	if b.env == logger.EnvProd && b.adminPassword == DefaultAdminPassword {
		b.log.Warn("admin created with the default password, change it via POST /auth/password",
			slog.String("username", b.adminUsername))
	}
	return true, nil
}

func defaultStores() []models.Store {
	return []models.Store{
		{Name: "Toko Utama", Address: "Jl. Raya Utama No. 123", Phone: "08123456789"},
		{Name: "Toko Cabang 1", Address: "Jl. Raya Cabang No. 456", Phone: "08234567890"},
	}
}

func defaultCategories() []models.Category {
	return []models.Category{
		{Name: "Elektronik", Description: "Produk elektronik dan gadget"},
		{Name: "Fashion", Description: "Produk pakaian dan aksesoris"},
		{Name: "Makanan", Description: "Produk makanan dan minuman"},
	}
}

func defaultCosts() []models.Cost {
	return []models.Cost{
		{Name: models.CostPackaging, Value: decimal.NewFromInt(5000), Type: models.CostTypeFixed, Description: "Biaya packaging per produk"},
		{Name: models.CostMargin, Value: decimal.NewFromInt(20), Type: models.CostTypePercentage, Description: "Margin keuntungan dalam persentase"},
	}
}

func defaultMarketplaces() []models.Marketplace {
	return []models.Marketplace{
		{Name: "Tokopedia", Fee: decimal.NewFromInt(5), Description: "Fee marketplace Tokopedia"},
		{Name: "Shopee", Fee: decimal.NewFromInt(5), Description: "Fee marketplace Shopee"},
		{Name: "Lazada", Fee: decimal.RequireFromString("4.5"), Description: "Fee marketplace Lazada"},
		{Name: "TikTok Shop", Fee: decimal.NewFromInt(3), Description: "Fee marketplace TikTok Shop"},
		{Name: "Offline", Fee: decimal.Zero, Description: "Penjualan offline tanpa fee"},
	}
}
