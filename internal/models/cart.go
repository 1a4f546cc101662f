package models

import "github.com/shopspring/decimal"

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

type CartItem struct {
	ProductID  string          `json:"product_id"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
}
