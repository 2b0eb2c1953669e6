package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/linemk/pricedesk/internal/pricing"
	"github.com/linemk/pricedesk/internal/storage"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TxRunner выполняет функцию в транзакции (storage.Transactor)
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// CreateProductInput - данные нового товара. MarketplacePrices: id площадки -> цена;
// если пусто, цены считаются калькулятором для всех площадок.
type CreateProductInput struct {
	Name              string
	SKU               string
	CategoryID        int64
	BasePrice         decimal.Decimal
	Description       string
	HasVariants       bool
	MarketplacePrices map[int64]decimal.Decimal
}

// PriceView - цена на площадке вместе с производными суммами для витрины
type PriceView struct {
	models.MarketplacePrice
	StrikePrice decimal.Decimal `json:"strike_price"`
	FeeAmount   decimal.Decimal `json:"fee_amount"`
}

// ProductDetails - товар со всеми ценами
type ProductDetails struct {
	models.ProductListItem
	Prices []PriceView `json:"prices"`
}

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (int64, error)
	ListProducts(ctx context.Context, filter storage.ProductFilter) ([]models.ProductListItem, error)
	GetProduct(ctx context.Context, id int64) (*ProductDetails, error)
	UpdatePrices(ctx context.Context, id int64, prices map[int64]decimal.Decimal) error
}

type ProductService struct {
	log      *slog.Logger
	tx       TxRunner
	products storage.ProductStorage
	catalog  storage.CatalogStorage
	pricing  PricingServiceInterface
}

func NewProductService(
	log *slog.Logger,
	tx TxRunner,
	products storage.ProductStorage,
	catalog storage.CatalogStorage,
	pricingService PricingServiceInterface,
) *ProductService {
	return &ProductService{
		log:      log,
		tx:       tx,
		products: products,
		catalog:  catalog,
		pricing:  pricingService,
	}
}

// ParseMarketplacePrices переводит ключи JSON-объекта в id площадок
func ParseMarketplacePrices(raw map[string]decimal.Decimal) (map[int64]decimal.Decimal, error) {
	prices := make(map[int64]decimal.Decimal, len(raw))
	for key, price := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: marketplace id %q is not a positive number", ErrValidation, key)
		}
		prices[id] = price
	}
	return prices, nil
}

// суммы хранятся в NUMERIC(12, 2): не больше двух знаков после запятой и меньше 10^10
var maxAmount = decimal.New(1, 10)

func validateAmount(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: %s must have at most two fractional digits", ErrValidation, field)
	}
	if amount.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: %s is too large", ErrValidation, field)
	}
	return nil
}

func validatePrices(prices map[int64]decimal.Decimal) error {
	for id, price := range prices {
		if price.IsNegative() {
			return fmt.Errorf("%w: price for marketplace %d must not be negative", ErrValidation, id)
		}
		if err := validateAmount("price for marketplace "+strconv.FormatInt(id, 10), price); err != nil {
			return err
		}
	}
	return nil
}

func validateCreate(in CreateProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case strings.TrimSpace(in.SKU) == "":
		return fmt.Errorf("%w: sku is required", ErrValidation)
	case in.CategoryID <= 0:
		return fmt.Errorf("%w: categoryId is required", ErrValidation)
	case !in.BasePrice.IsPositive():
		return fmt.Errorf("%w: basePrice must be positive", ErrValidation)
	}
	if err := validateAmount("basePrice", in.BasePrice); err != nil {
		return err
	}
	return validatePrices(in.MarketplacePrices)
}

// mapReferenceError переводит ошибки ссылочной целостности хранилища в ошибки сервиса
func mapReferenceError(err error) error {
	if errors.Is(err, storage.ErrCategoryNotFound) || errors.Is(err, storage.ErrMarketplaceNotFound) {
		return fmt.Errorf("%w: %w", ErrReferenceNotFound, err)
	}
	if errors.Is(err, storage.ErrDuplicatePrice) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

// CreateProduct сохраняет товар и его цены одной транзакцией.
// Если любая вставка падает, откатывается все, включая сам товар.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (int64, error) {
	const op = "service.ProductService.CreateProduct"
	logger := s.log.With(slog.String("op", op), slog.String("sku", in.SKU))

	if err := validateCreate(in); err != nil {
		logger.Warn("invalid product", slog.Any("error", err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	prices := in.MarketplacePrices
	if len(prices) == 0 {
		suggestion, err := s.pricing.Suggest(ctx, in.BasePrice)
		if err != nil {
			logger.Error("failed to derive prices", slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to derive prices: %w", op, err)
		}
		prices = lo.SliceToMap(suggestion.Prices, func(p MarketplaceSuggestion) (int64, decimal.Decimal) {
			return p.MarketplaceID, p.Price
		})
		logger.Info("prices derived from calculator", slog.Int("marketplaces", len(prices)))
	}

	marketplaceIDs := lo.Keys(prices)
	slices.Sort(marketplaceIDs)

	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.TrimSpace(in.SKU),
		CategoryID:  &in.CategoryID,
		BasePrice:   in.BasePrice,
		Description: in.Description,
		HasVariants: in.HasVariants,
	}

	var productID int64
	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.catalog.CategoryExistsTx(ctx, tx, in.CategoryID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: id %d", storage.ErrCategoryNotFound, in.CategoryID)
		}

		id, err := s.products.CreateProductTx(ctx, tx, product)
		if err != nil {
			return err
		}

		for _, marketplaceID := range marketplaceIDs {
			if err := s.products.CreateProductPriceTx(ctx, tx, id, marketplaceID, prices[marketplaceID]); err != nil {
				return err
			}
		}
		productID = id
		return nil
	})
	if err != nil {
		err = mapReferenceError(err)
		if errors.Is(err, ErrNotFound) {
			logger.Warn("unknown reference", slog.Any("error", err))
		} else {
			logger.Error("failed to create product", slog.Any("error", err))
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", productID), slog.Int("prices", len(marketplaceIDs)))
	return productID, nil
}

func (s *ProductService) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]models.ProductListItem, error) {
	const op = "service.ProductService.ListProducts"

	filter.Search = strings.TrimSpace(filter.Search)
	products, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// GetProduct возвращает товар с ценами, зачеркнутой ценой и комиссией площадки
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*ProductDetails, error) {
	const op = "service.ProductService.GetProduct"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		}
		logger.Error("failed to get product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prices, err := s.products.ListProductPrices(ctx, id)
	if err != nil {
		logger.Error("failed to list product prices", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &ProductDetails{
		ProductListItem: *product,
		Prices: lo.Map(prices, func(p models.MarketplacePrice, _ int) PriceView {
			return PriceView{
				MarketplacePrice: p,
				StrikePrice:      pricing.StrikePrice(p.Price),
				FeeAmount:        pricing.FeeAmount(p.Price, p.Fee),
			}
		}),
	}, nil
}

// UpdatePrices перезаписывает цены товара на площадках, остальные цены не трогает
func (s *ProductService) UpdatePrices(ctx context.Context, id int64, prices map[int64]decimal.Decimal) error {
	const op = "service.ProductService.UpdatePrices"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", id))

	if len(prices) == 0 {
		return fmt.Errorf("%s: %w: marketplacePrices is required", op, ErrValidation)
	}
	if err := validatePrices(prices); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	marketplaceIDs := lo.Keys(prices)
	slices.Sort(marketplaceIDs)

	err := s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.products.ProductExistsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !exists {
			return storage.ErrProductNotFound
		}
		for _, marketplaceID := range marketplaceIDs {
			if err := s.products.UpsertProductPriceTx(ctx, tx, id, marketplaceID, prices[marketplaceID]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		}
		err = mapReferenceError(err)
		if !errors.Is(err, ErrNotFound) {
			logger.Error("failed to update prices", slog.Any("error", err))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("prices updated", slog.Int("prices", len(marketplaceIDs)))
	return nil
}
