package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vetcare_backend/internal/models"
	"vetcare_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors for Stock ---
var (
	ErrStockItemNotFound = errors.New("stock item not found")
	ErrInvalidCategory   = errors.New("invalid stock category")
	ErrDateFormat        = errors.New("invalid date format, expected YYYY-MM-DD")
)

// --- Stock DTOs ---

// CreateStockItemRequest is used for adding a stock item of any category.
// SalePrice is intentionally absent: it is always derived.
type CreateStockItemRequest struct {
	Name           string          `json:"name" binding:"required"`
	Category       string          `json:"category" binding:"required"`
	Quantity       string          `json:"quantity"`
	PurchaseCost   decimal.Decimal `json:"purchase_cost"`
	Margin         decimal.Decimal `json:"margin"`
	ExpirationDate *string         `json:"expiration_date"` // YYYY-MM-DD
}

// UpdateStockItemRequest carries partial updates. Pointers distinguish
// "not provided" from zero values.
type UpdateStockItemRequest struct {
	Name           *string          `json:"name"`
	Quantity       *string          `json:"quantity"`
	PurchaseCost   *decimal.Decimal `json:"purchase_cost"`
	Margin         *decimal.Decimal `json:"margin"`
	ExpirationDate *string          `json:"expiration_date"` // YYYY-MM-DD
}

// --- StockService Interface ---
type StockService interface {
	CreateStockItem(req CreateStockItemRequest) (*models.StockItem, error)
	GetStockItemByID(itemID int64) (*models.StockItem, error)
	GetStockItems(category *string, page, pageSize int) ([]models.StockItem, int, error)
	UpdateStockItem(itemID int64, req UpdateStockItemRequest) (*models.StockItem, error)
	DeleteStockItem(itemID int64) error
}

// --- stockService Implementation ---
type stockService struct {
	stockRepo repositories.StockRepository
	db        *sql.DB
}

// NewStockService creates a new instance of StockService.
func NewStockService(repo repositories.StockRepository, db *sql.DB) StockService {
	return &stockService{
		stockRepo: repo,
		db:        db,
	}
}

// parseExpirationDate parses an optional YYYY-MM-DD string.
func parseExpirationDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDateFormat, *value)
	}
	return &parsed, nil
}

// CreateStockItem validates the request, derives the sale price and
// persists the item.
func (s *stockService) CreateStockItem(req CreateStockItemRequest) (*models.StockItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: item name cannot be empty", ErrValidation)
	}
	if !models.IsValidStockCategory(req.Category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}

	salePrice, err := DerivePrice(req.PurchaseCost, req.Margin)
	if err != nil {
		return nil, err
	}

	expiration, err := parseExpirationDate(req.ExpirationDate)
	if err != nil {
		return nil, err
	}

	item := &models.StockItem{
		Name:           req.Name,
		Category:       req.Category,
		Quantity:       req.Quantity,
		PurchaseCost:   req.PurchaseCost,
		Margin:         req.Margin,
		SalePrice:      salePrice,
		ExpirationDate: expiration,
	}

	id, err := s.stockRepo.CreateStockItem(s.db, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}
	return s.stockRepo.GetStockItemByID(id)
}

// GetStockItemByID fetches a single stock item.
func (s *stockService) GetStockItemByID(itemID int64) (*models.StockItem, error) {
	item, err := s.stockRepo.GetStockItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item by ID: %w", err)
	}
	return item, nil
}

// GetStockItems returns a page of stock items, optionally filtered by category.
func (s *stockService) GetStockItems(category *string, page, pageSize int) ([]models.StockItem, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if category != nil && *category != "" && !models.IsValidStockCategory(*category) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidCategory, *category)
	}

	items, totalCount, err := s.stockRepo.GetStockItems(category, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock items: %w", err)
	}
	return items, totalCount, nil
}

// UpdateStockItem applies the provided fields and re-derives the sale
// price from the effective purchase cost and margin. The category of an
// existing item is immutable; an item never changes kind.
func (s *stockService) UpdateStockItem(itemID int64, req UpdateStockItemRequest) (*models.StockItem, error) {
	item, err := s.stockRepo.GetStockItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to find stock item for update: %w", err)
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: item name cannot be empty if provided", ErrValidation)
		}
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.PurchaseCost != nil {
		item.PurchaseCost = *req.PurchaseCost
	}
	if req.Margin != nil {
		item.Margin = *req.Margin
	}
	if req.ExpirationDate != nil {
		expiration, parseErr := parseExpirationDate(req.ExpirationDate)
		if parseErr != nil {
			return nil, parseErr
		}
		item.ExpirationDate = expiration
	}

	// Re-derive on every update; the stored sale price must always equal
	// round2(purchase_cost * margin).
	salePrice, err := DerivePrice(item.PurchaseCost, item.Margin)
	if err != nil {
		return nil, err
	}
	item.SalePrice = salePrice

	if err := s.stockRepo.UpdateStockItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to update stock item: %w", err)
	}
	return s.stockRepo.GetStockItemByID(itemID)
}

// DeleteStockItem removes a stock item. Invoices that reference it keep
// their snapshot, so no referential check is performed.
func (s *stockService) DeleteStockItem(itemID int64) error {
	_, err := s.stockRepo.GetStockItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStockItemNotFound
		}
		return fmt.Errorf("failed to find stock item for deletion: %w", err)
	}

	if err := s.stockRepo.DeleteStockItem(s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStockItemNotFound
		}
		return fmt.Errorf("failed to delete stock item: %w", err)
	}
	return nil
}
