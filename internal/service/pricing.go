package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/linemk/pricedesk/internal/pricing"
	"github.com/linemk/pricedesk/internal/storage"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// MarketplaceSuggestion - рекомендованная цена для одной площадки
type MarketplaceSuggestion struct {
	MarketplaceID   int64           `json:"marketplace_id"`
	MarketplaceName string          `json:"marketplace_name"`
	Fee             decimal.Decimal `json:"fee"`
	Price           decimal.Decimal `json:"price"`
	StrikePrice     decimal.Decimal `json:"strike_price"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
}

// Suggestion - результат расчета цен по всем площадкам
type Suggestion struct {
	BasePrice     decimal.Decimal         `json:"base_price"`
	PackagingFee  decimal.Decimal         `json:"packaging_fee"`
	MarginPercent decimal.Decimal         `json:"margin_percent"`
	Prices        []MarketplaceSuggestion `json:"prices"`
}

type PricingServiceInterface interface {
	Suggest(ctx context.Context, basePrice decimal.Decimal) (*Suggestion, error)
}

type PricingService struct {
	log     *slog.Logger
	catalog storage.CatalogStorage
}

func NewPricingService(log *slog.Logger, catalog storage.CatalogStorage) *PricingService {
	return &PricingService{log: log, catalog: catalog}
}

// Suggest считает цены для всех площадок по текущим расходам из таблицы costs
func (s *PricingService) Suggest(ctx context.Context, basePrice decimal.Decimal) (*Suggestion, error) {
	const op = "service.PricingService.Suggest"
	logger := s.log.With(slog.String("op", op), slog.String("base_price", basePrice.String()))

	if basePrice.IsNegative() {
		return nil, fmt.Errorf("%s: %w: base price must not be negative", op, ErrValidation)
	}

	calc, err := s.calculator(ctx)
	if err != nil {
		logger.Error("failed to build calculator", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	marketplaces, err := s.catalog.ListMarketplaces(ctx)
	if err != nil {
		logger.Error("failed to list marketplaces", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list marketplaces: %w", op, err)
	}

	prices := make([]MarketplaceSuggestion, 0, len(marketplaces))
	for _, m := range marketplaces {
		price, err := calc.Price(basePrice, m.Fee)
		if err != nil {
			if errors.Is(err, pricing.ErrInvalidInput) {
				return nil, fmt.Errorf("%s: marketplace %d: %w: %w", op, m.ID, ErrValidation, err)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		prices = append(prices, MarketplaceSuggestion{
			MarketplaceID:   m.ID,
			MarketplaceName: m.Name,
			Fee:             m.Fee,
			Price:           price,
			StrikePrice:     pricing.StrikePrice(price),
			FeeAmount:       pricing.FeeAmount(price, m.Fee),
		})
	}

	return &Suggestion{
		BasePrice:     basePrice,
		PackagingFee:  calc.PackagingFee,
		MarginPercent: calc.MarginPercent,
		Prices:        prices,
	}, nil
}

// calculator берет упаковку и маржу из costs, отсутствующие строки заменяются значениями по умолчанию
func (s *PricingService) calculator(ctx context.Context) (pricing.Calculator, error) {
	costs, err := s.catalog.ListCosts(ctx)
	if err != nil {
		return pricing.Calculator{}, fmt.Errorf("failed to list costs: %w", err)
	}

	calc := pricing.Default()
	if c, ok := lo.Find(costs, func(c models.Cost) bool {
		return c.Name == models.CostPackaging && c.Type == models.CostTypeFixed
	}); ok {
		calc.PackagingFee = c.Value
	}
	if c, ok := lo.Find(costs, func(c models.Cost) bool {
		return c.Name == models.CostMargin && c.Type == models.CostTypePercentage
	}); ok {
		calc.MarginPercent = c.Value
	}

	// расходы редактируются вне приложения, поэтому проверяем их здесь
	return pricing.New(calc.PackagingFee, calc.MarginPercent)
}
