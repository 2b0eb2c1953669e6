package pricing_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/linemk/pricedesk/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculator_Price(t *testing.T) {
	calc := pricing.Default()

	cases := []struct {
		name string
		base string
		fee  string
		want string
	}{
		{name: "offline without fee", base: "10000", fee: "0", want: "18000"},
		{name: "tokopedia 5%", base: "10000", fee: "5", want: "19000"},
		{name: "lazada 4.5%", base: "10000", fee: "4.5", want: "19000"},
		{name: "tiktok 3%", base: "10000", fee: "3", want: "19000"},
		{name: "zero base price", base: "0", fee: "0", want: "6000"},
		{name: "large base price", base: "100000", fee: "5", want: "133000"},
		{name: "fractional base price", base: "9999.99", fee: "0", want: "18000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.Price(d(tc.base), d(tc.fee))
			require.NoError(t, err)
			assert.True(t, d(tc.want).Equal(got), "expected %s, got %s", tc.want, got)
		})
	}
}

// Результат всегда кратен 1000 и не меньше (base+5000)*1.2
func TestCalculator_Price_Properties(t *testing.T) {
	calc := pricing.Default()
	rnd := rand.New(rand.NewSource(42))
	thousand := decimal.NewFromInt(1000)

	for i := 0; i < 2000; i++ {
		base := decimal.New(rnd.Int63n(100_000_000), -2)           // 0 .. 999999.99
		fee := decimal.New(rnd.Int63n(10_000), -2)                 // 0 .. 99.99
		floor := base.Add(decimal.NewFromInt(5000)).Mul(d("1.2")) // без учета комиссии

		price, err := calc.Price(base, fee)
		require.NoError(t, err, "base=%s fee=%s", base, fee)
		assert.True(t, price.Mod(thousand).IsZero(), "price %s is not a multiple of 1000", price)
		assert.True(t, price.GreaterThanOrEqual(floor), "price %s is below %s", price, floor)
	}
}

func TestCalculator_Price_InvalidFee(t *testing.T) {
	calc := pricing.Default()

	for _, fee := range []string{"100", "150", "-1"} {
		_, err := calc.Price(d("10000"), d(fee))
		assert.Error(t, err, "fee %s must be rejected", fee)
		assert.True(t, errors.Is(err, pricing.ErrInvalidInput))
	}
}

func TestCalculator_Price_NegativeBase(t *testing.T) {
	_, err := pricing.Default().Price(d("-1"), d("5"))
	assert.True(t, errors.Is(err, pricing.ErrInvalidInput))
}

func TestCalculator_Price_InvalidMargin(t *testing.T) {
	// нулевая маржа и упаковка допустимы, но -100% маржи - нет
	_, err := pricing.Calculator{MarginPercent: d("-100")}.Price(d("1"), d("0"))
	assert.True(t, errors.Is(err, pricing.ErrInvalidInput))
}

func TestNew(t *testing.T) {
	calc, err := pricing.New(d("0"), d("0"))
	require.NoError(t, err)
	price, err := calc.Price(d("1500"), d("0"))
	require.NoError(t, err)
	assert.True(t, d("2000").Equal(price))

	_, err = pricing.New(d("-1"), d("20"))
	assert.True(t, errors.Is(err, pricing.ErrInvalidInput))

	_, err = pricing.New(d("5000"), d("-100"))
	assert.True(t, errors.Is(err, pricing.ErrInvalidInput))
}

func TestStrikePriceAndFeeAmount(t *testing.T) {
	assert.True(t, d("22800").Equal(pricing.StrikePrice(d("19000"))))
	assert.True(t, d("1").Equal(pricing.StrikePrice(d("1"))))
	assert.True(t, d("950").Equal(pricing.FeeAmount(d("19000"), d("5"))))
	assert.True(t, d("855").Equal(pricing.FeeAmount(d("19000"), d("4.5"))))
	assert.True(t, pricing.FeeAmount(d("19000"), d("0")).IsZero())
}
