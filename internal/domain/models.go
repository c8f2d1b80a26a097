package domain

import "time"

// Product is a read-only snapshot of an inventory item. Its lifecycle is
// owned by the CRUD layer; nothing in this module mutates it.
type Product struct {
	ID                int64   `json:"id" db:"id"`
	SKU               string  `json:"sku" db:"sku"`
	Name              string  `json:"name" db:"name"`
	Quantity          int     `json:"quantity" db:"quantity"`
	UnitPrice         float64 `json:"unit_price" db:"unit_price"`
	LowStockThreshold int     `json:"low_stock_threshold" db:"low_stock_threshold"`
	CategoryName      *string `json:"category_name,omitempty" db:"category_name"`
}

// SalesEvent is a single append-only sales record for a product.
type SalesEvent struct {
	ProductID    int64     `json:"product_id" db:"product_id"`
	QuantitySold int       `json:"quantity_sold" db:"quantity_sold"`
	SoldAt       time.Time `json:"sold_at" db:"sold_at"`
}

// Forecast is the per-product reorder signal produced by the forecast
// engine. It is ephemeral output and never persisted.
//
// DaysUntilStockout is nil exactly when AvgDailySales is zero: with no
// sales velocity the horizon is infinite, not zero.
type Forecast struct {
	ProductID         int64    `json:"product_id"`
	SKU               string   `json:"sku"`
	Name              string   `json:"name"`
	CategoryName      *string  `json:"category_name,omitempty"`
	CurrentQuantity   int      `json:"current_quantity"`
	AvgDailySales     float64  `json:"avg_daily_sales"`
	DaysUntilStockout *float64 `json:"days_until_stockout,omitempty"`
	SuggestedReorder  int      `json:"suggested_reorder"`
	Urgency           Urgency  `json:"urgency"`
}
