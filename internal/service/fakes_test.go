package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/linemk/pricedesk/internal/storage"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users map[int64]*models.User // ключ: id
	err   error                  // ошибка хранилища для всех методов
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == identifier || (u.Email != "" && u.Email == identifier) {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, passHash []byte) error {
	u, ok := f.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.PassHash = passHash
	return nil
}

type fakeCatalog struct {
	categories   []models.Category
	marketplaces []models.Marketplace
	stores       []models.Store
	costs        []models.Cost
	err          error
}

var _ storage.CatalogStorage = (*fakeCatalog)(nil)

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalog) ListMarketplaces(ctx context.Context) ([]models.Marketplace, error) {
	return f.marketplaces, f.err
}

func (f *fakeCatalog) ListStores(ctx context.Context) ([]models.Store, error) {
	return f.stores, f.err
}

func (f *fakeCatalog) ListCosts(ctx context.Context) ([]models.Cost, error) {
	return f.costs, f.err
}

func (f *fakeCatalog) CategoryExistsTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, f.err
}

// fakeTx вызывает fn без настоящей транзакции
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	f.calls++
	return fn(nil)
}

type fakeMigrator struct {
	ups int
	err error
}

func (f *fakeMigrator) Up(ctx context.Context) error {
	f.ups++
	return f.err
}

// fakeSeedStore хранит справочники в памяти
type fakeSeedStore struct {
	locks        int
	users        []*models.User
	stores       []models.Store
	categories   []models.Category
	costs        []models.Cost
	marketplaces []models.Marketplace
}

var _ storage.SeedStorage = (*fakeSeedStore)(nil)

func (f *fakeSeedStore) AcquireSeedLock(ctx context.Context, tx *sqlx.Tx) error {
	f.locks++
	return nil
}

func (f *fakeSeedStore) UserExistsTx(ctx context.Context, tx *sqlx.Tx, username string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSeedStore) CreateUserTx(ctx context.Context, tx *sqlx.Tx, user *models.User) (int64, error) {
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, user)
	return user.ID, nil
}

func (f *fakeSeedStore) TableEmptyTx(ctx context.Context, tx *sqlx.Tx, table string) (bool, error) {
	switch table {
	case storage.TableStores:
		return len(f.stores) == 0, nil
	case storage.TableCategories:
		return len(f.categories) == 0, nil
	case storage.TableCosts:
		return len(f.costs) == 0, nil
	case storage.TableMarketplaces:
		return len(f.marketplaces) == 0, nil
	}
	return false, fmt.Errorf("unknown table %s", table)
}

func (f *fakeSeedStore) InsertStoresTx(ctx context.Context, tx *sqlx.Tx, stores []models.Store) error {
	f.stores = append(f.stores, stores...)
	return nil
}

func (f *fakeSeedStore) InsertCategoriesTx(ctx context.Context, tx *sqlx.Tx, categories []models.Category) error {
	f.categories = append(f.categories, categories...)
	return nil
}

func (f *fakeSeedStore) InsertCostsTx(ctx context.Context, tx *sqlx.Tx, costs []models.Cost) error {
	f.costs = append(f.costs, costs...)
	return nil
}

func (f *fakeSeedStore) InsertMarketplacesTx(ctx context.Context, tx *sqlx.Tx, marketplaces []models.Marketplace) error {
	f.marketplaces = append(f.marketplaces, marketplaces...)
	return nil
}
