package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vetcare_backend/internal/models"

	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice database operations.
// The three optional slots are stored as denormalized snapshot columns on
// the invoice row itself, so every create and update is a single write.
type InvoiceRepository interface {
	CreateInvoice(executor SQLExecutor, invoice *models.Invoice) (int64, error)
	GetInvoiceByID(id int64) (*models.Invoice, error)
	GetInvoices(page, pageSize int) ([]models.Invoice, int, error) // Invoices, total count, error
	UpdateInvoice(executor SQLExecutor, invoice *models.Invoice) error
	UpdatePaymentStatus(executor SQLExecutor, id int64, status string, updatedAt time.Time) error
	DeleteInvoice(executor SQLExecutor, id int64) error
}

type invoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository.
func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, invoice_number, date, client_id, client_address, client_phone, consultation_fee,
	medication_item_id, medication_name, medication_price,
	food_product_item_id, food_product_name, food_product_price,
	consumable_item_id, consumable_name, consumable_price,
	total, payment_status, created_at, updated_at`

// slotArgs flattens an optional invoice line into its three nullable
// column values for INSERT/UPDATE parameter lists.
func slotArgs(line *models.InvoiceLine) (sql.NullInt64, sql.NullString, decimal.NullDecimal) {
	if line == nil {
		return sql.NullInt64{}, sql.NullString{}, decimal.NullDecimal{}
	}
	return sql.NullInt64{Int64: line.ItemID, Valid: true},
		sql.NullString{String: line.Name, Valid: true},
		decimal.NullDecimal{Decimal: line.SalePrice, Valid: true}
}

// slotFromColumns rebuilds an optional invoice line from its nullable
// columns. All three columns are written together, so validity of the
// item ID decides presence.
func slotFromColumns(itemID sql.NullInt64, name sql.NullString, price decimal.NullDecimal) *models.InvoiceLine {
	if !itemID.Valid {
		return nil
	}
	return &models.InvoiceLine{
		ItemID:    itemID.Int64,
		Name:      name.String,
		SalePrice: price.Decimal,
	}
}

// scanInvoice scans an invoice row from either *sql.Row or *sql.Rows.
func scanInvoice(s scanner, invoice *models.Invoice, extra ...interface{}) error {
	var (
		medID, foodID, consID       sql.NullInt64
		medName, foodName, consName sql.NullString
		medPrc, foodPrc, consPrc    decimal.NullDecimal
	)
	dest := []interface{}{
		&invoice.ID, &invoice.InvoiceNumber, &invoice.Date, &invoice.ClientID,
		&invoice.ClientAddress, &invoice.ClientPhone, &invoice.ConsultationFee,
		&medID, &medName, &medPrc,
		&foodID, &foodName, &foodPrc,
		&consID, &consName, &consPrc,
		&invoice.Total, &invoice.PaymentStatus, &invoice.CreatedAt, &invoice.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return err
	}
	invoice.Medication = slotFromColumns(medID, medName, medPrc)
	invoice.FoodProduct = slotFromColumns(foodID, foodName, foodPrc)
	invoice.Consumable = slotFromColumns(consID, consName, consPrc)
	return nil
}

// CreateInvoice inserts a new invoice with its slot snapshots in one write.
func (r *invoiceRepository) CreateInvoice(executor SQLExecutor, invoice *models.Invoice) (int64, error) {
	query := `INSERT INTO invoices (invoice_number, date, client_id, client_address, client_phone, consultation_fee,
	            medication_item_id, medication_name, medication_price,
	            food_product_item_id, food_product_name, food_product_price,
	            consumable_item_id, consumable_name, consumable_price,
	            total, payment_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id`

	currentTime := time.Now()
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = currentTime
	}
	if invoice.UpdatedAt.IsZero() {
		invoice.UpdatedAt = currentTime
	}

	medID, medName, medPrc := slotArgs(invoice.Medication)
	foodID, foodName, foodPrc := slotArgs(invoice.FoodProduct)
	consID, consName, consPrc := slotArgs(invoice.Consumable)

	err := executor.QueryRow(query,
		invoice.InvoiceNumber, invoice.Date, invoice.ClientID, invoice.ClientAddress,
		invoice.ClientPhone, invoice.ConsultationFee,
		medID, medName, medPrc,
		foodID, foodName, foodPrc,
		consID, consName, consPrc,
		invoice.Total, invoice.PaymentStatus, invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&invoice.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating invoice: %v", ErrDatabaseError, err)
	}
	return invoice.ID, nil
}

// GetInvoiceByID retrieves an invoice by its ID.
func (r *invoiceRepository) GetInvoiceByID(id int64) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	err := scanInvoice(r.db.QueryRow(query, id), invoice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting invoice by ID %d: %v", ErrDatabaseError, id, err)
	}
	return invoice, nil
}

// GetInvoices retrieves invoices in insertion order with pagination.
func (r *invoiceRepository) GetInvoices(page, pageSize int) ([]models.Invoice, int, error) {
	invoices := []models.Invoice{}
	totalCount := 0

	query := `SELECT ` + invoiceColumns + `, COUNT(*) OVER() as total_count
	          FROM invoices ORDER BY id ASC`
	var args []interface{}

	if pageSize > 0 {
		query += ` LIMIT $1`
		args = append(args, pageSize)
		if page > 0 {
			offset := (page - 1) * pageSize
			query += ` OFFSET $2`
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying invoices: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var invoice models.Invoice
		if err := scanInvoice(rows, &invoice, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning invoice: %v", ErrDatabaseError, err)
		}
		invoices = append(invoices, invoice)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating invoice rows: %v", ErrDatabaseError, err)
	}
	if len(invoices) == 0 {
		totalCount = 0
	}

	return invoices, totalCount, nil
}

// UpdateInvoice replaces the mutable fields of an invoice, slots and total
// included. Payment status is deliberately not touched here; it changes
// only through UpdatePaymentStatus.
func (r *invoiceRepository) UpdateInvoice(executor SQLExecutor, invoice *models.Invoice) error {
	query := `UPDATE invoices SET
	            invoice_number = $1, date = $2, client_id = $3, client_address = $4,
	            client_phone = $5, consultation_fee = $6,
	            medication_item_id = $7, medication_name = $8, medication_price = $9,
	            food_product_item_id = $10, food_product_name = $11, food_product_price = $12,
	            consumable_item_id = $13, consumable_name = $14, consumable_price = $15,
	            total = $16, updated_at = $17
	          WHERE id = $18`

	invoice.UpdatedAt = time.Now()
	medID, medName, medPrc := slotArgs(invoice.Medication)
	foodID, foodName, foodPrc := slotArgs(invoice.FoodProduct)
	consID, consName, consPrc := slotArgs(invoice.Consumable)

	result, err := executor.Exec(query,
		invoice.InvoiceNumber, invoice.Date, invoice.ClientID, invoice.ClientAddress,
		invoice.ClientPhone, invoice.ConsultationFee,
		medID, medName, medPrc,
		foodID, foodName, foodPrc,
		consID, consName, consPrc,
		invoice.Total, invoice.UpdatedAt, invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating invoice ID %d: %v", ErrDatabaseError, invoice.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating invoice ID %d: %v", ErrDatabaseError, invoice.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePaymentStatus changes only the payment status of an invoice.
func (r *invoiceRepository) UpdatePaymentStatus(executor SQLExecutor, id int64, status string, updatedAt time.Time) error {
	query := `UPDATE invoices SET payment_status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, status, updatedAt, id)
	if err != nil {
		return fmt.Errorf("%w: updating payment status for invoice ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for invoice ID %d payment status: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInvoice removes an invoice. Referenced clients and stock items
// are untouched.
func (r *invoiceRepository) DeleteInvoice(executor SQLExecutor, id int64) error {
	query := `DELETE FROM invoices WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting invoice ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting invoice ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
