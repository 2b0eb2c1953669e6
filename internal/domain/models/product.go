package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар каталога
type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	SKU         string          `db:"sku" json:"sku"`
	CategoryID  *int64          `db:"category_id" json:"category_id"` // NULL после удаления категории
	BasePrice   decimal.Decimal `db:"base_price" json:"base_price"`
	Description string          `db:"description" json:"description"`
	HasVariants bool            `db:"has_variants" json:"has_variants"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ProductListItem - строка списка товаров, CategoryName заполняется через LEFT JOIN с categories
type ProductListItem struct {
	Product
	CategoryName *string `db:"category_name" json:"category_name"`
}

// ProductPrice - цена товара на конкретной площадке
type ProductPrice struct {
	ID            int64           `db:"id" json:"id"`
	ProductID     int64           `db:"product_id" json:"product_id"`
	MarketplaceID int64           `db:"marketplace_id" json:"marketplace_id"`
	Price         decimal.Decimal `db:"price" json:"price"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// MarketplacePrice - цена товара вместе с данными площадки (JOIN с marketplaces)
type MarketplacePrice struct {
	MarketplaceID   int64           `db:"marketplace_id" json:"marketplace_id"`
	MarketplaceName string          `db:"marketplace_name" json:"marketplace_name"`
	Fee             decimal.Decimal `db:"fee" json:"fee"`
	Price           decimal.Decimal `db:"price" json:"price"`
}
