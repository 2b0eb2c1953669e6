package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// статусы заказа
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// статусы follow-up
const (
	FollowupStatusPending   = "pending"
	FollowupStatusContacted = "contacted"
	FollowupStatusCompleted = "completed"
	FollowupStatusCancelled = "cancelled"
)

// OrderStatuses - допустимые значения orders.status, порядок как в CHECK
var OrderStatuses = []string{
	OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
}

// FollowupStatuses - допустимые значения followups.status
var FollowupStatuses = []string{
	FollowupStatusPending, FollowupStatusContacted, FollowupStatusCompleted, FollowupStatusCancelled,
}

// Order представляет заказ покупателя с площадки или из магазина.
// Бизнес-логики по заказам пока нет, структура повторяет таблицу orders.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	OrderNumber     string          `db:"order_number" json:"order_number"`
	CustomerName    string          `db:"customer_name" json:"customer_name"`
	CustomerPhone   string          `db:"customer_phone" json:"customer_phone"`
	CustomerAddress string          `db:"customer_address" json:"customer_address"`
	MarketplaceID   *int64          `db:"marketplace_id" json:"marketplace_id"`
	StoreID         *int64          `db:"store_id" json:"store_id"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status          string          `db:"status" json:"status"`
	OrderDate       time.Time       `db:"order_date" json:"order_date"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderItem - позиция заказа
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// Followup - запись о работе с заказом после продажи
type Followup struct {
	ID           int64     `db:"id" json:"id"`
	OrderID      int64     `db:"order_id" json:"order_id"`
	Notes        string    `db:"notes" json:"notes"`
	FollowupDate time.Time `db:"followup_date" json:"followup_date"`
	Status       string    `db:"status" json:"status"`
}
