package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product est un produit du catalogue, vendu au poids (prix au kilo).
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PricePerKg  decimal.Decimal `json:"price_per_kg"`
	StockKg     decimal.Decimal `json:"stock_kg"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
