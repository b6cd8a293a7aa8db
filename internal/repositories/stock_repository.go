package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"vetcare_backend/internal/models"
)

// StockRepository defines the interface for stock item database operations.
// One repository serves all three categories; queries filter on the
// category column where a specific kind is required.
type StockRepository interface {
	CreateStockItem(executor SQLExecutor, item *models.StockItem) (int64, error)
	GetStockItemByID(id int64) (*models.StockItem, error)
	GetStockItemByCategory(category string, id int64) (*models.StockItem, error)
	GetStockItems(category *string, page, pageSize int) ([]models.StockItem, int, error) // Items, total count, error
	UpdateStockItem(executor SQLExecutor, item *models.StockItem) error
	DeleteStockItem(executor SQLExecutor, id int64) error
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

const stockItemColumns = `id, name, category, quantity, purchase_cost, margin, sale_price, expiration_date, created_at, updated_at`

// scanStockItem scans a stock item row from either *sql.Row or *sql.Rows.
func scanStockItem(s scanner, item *models.StockItem, extra ...interface{}) error {
	var expiration sql.NullTime
	dest := []interface{}{
		&item.ID, &item.Name, &item.Category, &item.Quantity,
		&item.PurchaseCost, &item.Margin, &item.SalePrice,
		&expiration, &item.CreatedAt, &item.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return err
	}
	if expiration.Valid {
		item.ExpirationDate = &expiration.Time
	}
	return nil
}

// CreateStockItem inserts a new stock item into the database.
func (r *stockRepository) CreateStockItem(executor SQLExecutor, item *models.StockItem) (int64, error) {
	query := `INSERT INTO stock_items (name, category, quantity, purchase_cost, margin, sale_price, expiration_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	currentTime := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = currentTime
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = currentTime
	}

	var expiration sql.NullTime
	if item.ExpirationDate != nil && !item.ExpirationDate.IsZero() {
		expiration = sql.NullTime{Time: *item.ExpirationDate, Valid: true}
	}

	err := executor.QueryRow(query,
		item.Name, item.Category, item.Quantity, item.PurchaseCost,
		item.Margin, item.SalePrice, expiration, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating stock item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

// GetStockItemByID retrieves a stock item by its ID, regardless of category.
func (r *stockRepository) GetStockItemByID(id int64) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`

	err := scanStockItem(r.db.QueryRow(query, id), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item by ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

// GetStockItemByCategory retrieves a stock item by ID constrained to a
// category. An existing item of another category is reported as not found,
// so an invoice slot can never reference the wrong kind of item.
func (r *stockRepository) GetStockItemByCategory(category string, id int64) (*models.StockItem, error) {
	item := &models.StockItem{}
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1 AND category = $2`

	err := scanStockItem(r.db.QueryRow(query, id, category), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock item %d (category %s): %v", ErrDatabaseError, id, category, err)
	}
	return item, nil
}

// GetStockItems retrieves stock items with pagination and an optional
// category filter.
func (r *stockRepository) GetStockItems(category *string, page, pageSize int) ([]models.StockItem, int, error) {
	items := []models.StockItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + stockItemColumns + `, COUNT(*) OVER() as total_count FROM stock_items`)

	var args []interface{}
	argCount := 1

	if category != nil && *category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE category = $%d", argCount))
		args = append(args, *category)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY name ASC")

	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			offset := (page - 1) * pageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying stock items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.StockItem
		if err := scanStockItem(rows, &item, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock item rows: %v", ErrDatabaseError, err)
	}
	if len(items) == 0 {
		totalCount = 0
	}

	return items, totalCount, nil
}

// UpdateStockItem updates an existing stock item. The caller is expected
// to have re-derived SalePrice before persisting.
func (r *stockRepository) UpdateStockItem(executor SQLExecutor, item *models.StockItem) error {
	query := `UPDATE stock_items SET
	            name = $1, category = $2, quantity = $3, purchase_cost = $4,
	            margin = $5, sale_price = $6, expiration_date = $7, updated_at = $8
	          WHERE id = $9`

	item.UpdatedAt = time.Now()
	var expiration sql.NullTime
	if item.ExpirationDate != nil && !item.ExpirationDate.IsZero() {
		expiration = sql.NullTime{Time: *item.ExpirationDate, Valid: true}
	}

	result, err := executor.Exec(query,
		item.Name, item.Category, item.Quantity, item.PurchaseCost,
		item.Margin, item.SalePrice, expiration, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating stock item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating stock item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStockItem removes a stock item. Invoices referencing the item
// keep their price snapshot, so deletion is always permitted.
func (r *stockRepository) DeleteStockItem(executor SQLExecutor, id int64) error {
	query := `DELETE FROM stock_items WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting stock item ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
