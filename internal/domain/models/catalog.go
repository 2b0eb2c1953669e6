package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category - категория товаров
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Store - физический магазин продавца
type Store struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Marketplace - площадка продаж, Fee - комиссия площадки в процентах
type Marketplace struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Fee         decimal.Decimal `db:"fee" json:"fee"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// типы расходов
const (
	CostTypeFixed      = "fixed"
	CostTypePercentage = "percentage"
)

// названия расходов, которые участвуют в расчете цены
const (
	CostPackaging = "Packaging"
	CostMargin    = "Margin"
)

// Cost - настраиваемый расход (упаковка, маржа)
type Cost struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Value       decimal.Decimal `db:"value" json:"value"`
	Type        string          `db:"type" json:"type"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
