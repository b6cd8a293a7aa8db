package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock item categories. The three kinds are structurally identical and
// share one pricing rule; the category only decides which invoice slot
// an item may fill.
const (
	StockCategoryMedication  = "medication"
	StockCategoryConsumable  = "consumable"
	StockCategoryFoodProduct = "food_product"
)

// StockItem represents a stock entry (medication, consumable or food product).
// SalePrice is derived from PurchaseCost and Margin and is recomputed on
// every create and update; it is never accepted from client input.
type StockItem struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name" binding:"required"`
	Category       string          `json:"category" db:"category" binding:"required"`
	Quantity       string          `json:"quantity" db:"quantity"` // free text, may carry a unit suffix ("10 mg")
	PurchaseCost   decimal.Decimal `json:"purchase_cost" db:"purchase_cost"`
	Margin         decimal.Decimal `json:"margin" db:"margin"`
	SalePrice      decimal.Decimal `json:"sale_price" db:"sale_price"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty" db:"expiration_date"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsValidStockCategory reports whether category is one of the known kinds.
func IsValidStockCategory(category string) bool {
	switch category {
	case StockCategoryMedication, StockCategoryConsumable, StockCategoryFoodProduct:
		return true
	default:
		return false
	}
}
