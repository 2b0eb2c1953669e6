// Package pricing считает рекомендованные цены товара для площадок.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput возвращается, если входные данные не позволяют посчитать цену
// (отрицательная база, комиссия площадки 100% и выше и т.п.)
var ErrInvalidInput = errors.New("pricing: invalid input")

var (
	// DefaultPackagingFee - фиксированная стоимость упаковки
	DefaultPackagingFee = decimal.NewFromInt(5000)
	// DefaultMarginPercent - желаемая маржа в процентах
	DefaultMarginPercent = decimal.NewFromInt(20)

	hundred    = decimal.NewFromInt(100)
	roundStep  = decimal.NewFromInt(1000)
	strikeRate = decimal.RequireFromString("1.2")
)

// Calculator хранит параметры формулы: стоимость упаковки и маржу.
type Calculator struct {
	PackagingFee  decimal.Decimal
	MarginPercent decimal.Decimal
}

// Default возвращает калькулятор с параметрами по умолчанию (упаковка 5000, маржа 20%)
func Default() Calculator {
	return Calculator{
		PackagingFee:  DefaultPackagingFee,
		MarginPercent: DefaultMarginPercent,
	}
}

// New создает калькулятор с заданными параметрами
func New(packagingFee, marginPercent decimal.Decimal) (Calculator, error) {
	if packagingFee.IsNegative() {
		return Calculator{}, fmt.Errorf("%w: packaging fee must not be negative", ErrInvalidInput)
	}
	if marginPercent.LessThanOrEqual(hundred.Neg()) {
		return Calculator{}, fmt.Errorf("%w: margin must be greater than -100%%", ErrInvalidInput)
	}
	return Calculator{PackagingFee: packagingFee, MarginPercent: marginPercent}, nil
}

// Price считает рекомендованную цену для площадки:
//
//	ceil(((base + packaging) * (1 + margin/100)) / (1 - fee/100) / 1000) * 1000
//
// Формула приведена к виду (base+packaging)*(100+margin) / ((100-fee)*1000),
// чтобы деление было целочисленным и округление вверх было точным.
func (c Calculator) Price(basePrice, marketplaceFee decimal.Decimal) (decimal.Decimal, error) {
	if basePrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: base price must not be negative", ErrInvalidInput)
	}
	if marketplaceFee.IsNegative() || marketplaceFee.GreaterThanOrEqual(hundred) {
		return decimal.Zero, fmt.Errorf("%w: marketplace fee must be in [0, 100)", ErrInvalidInput)
	}
	if c.PackagingFee.IsNegative() || c.MarginPercent.LessThanOrEqual(hundred.Neg()) {
		return decimal.Zero, fmt.Errorf("%w: calculator is not configured", ErrInvalidInput)
	}

	numerator := basePrice.Add(c.PackagingFee).Mul(hundred.Add(c.MarginPercent))
	denominator := hundred.Sub(marketplaceFee).Mul(roundStep)

	steps, rem := numerator.QuoRem(denominator, 0)
	if rem.IsPositive() {
		steps = steps.Add(decimal.NewFromInt(1))
	}
	return steps.Mul(roundStep), nil
}

// StrikePrice - "зачеркнутая" цена для витрины, price * 1.2 с округлением до целого.
// Только для отображения, в БД не хранится.
func StrikePrice(price decimal.Decimal) decimal.Decimal {
	return price.Mul(strikeRate).Round(0)
}

// FeeAmount - сколько площадка удержит с цены
func FeeAmount(price, marketplaceFee decimal.Decimal) decimal.Decimal {
	return price.Mul(marketplaceFee).Div(hundred).Round(2)
}
