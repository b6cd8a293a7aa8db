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

// --- Custom Service Errors for Invoices ---
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrInvoiceNumberConflict is reserved for a future uniqueness rule on
	// invoice numbers; no such rule is enforced today.
	ErrInvoiceNumberConflict = errors.New("invoice number already exists")
)

// --- Invoice DTOs ---

// InvoiceSlotRequest enables one optional inventory slot on an invoice.
// A nil slot in the parent request means the slot is absent, not zero.
type InvoiceSlotRequest struct {
	ItemID int64 `json:"item_id"`
}

// CreateInvoiceRequest is used for composing a new invoice. The total is
// never part of the request; it is always derived server-side.
// ConsultationFee is a pointer so a missing fee can be told apart from a
// legitimate zero fee.
type CreateInvoiceRequest struct {
	InvoiceNumber   string              `json:"invoice_number"`
	Date            *string             `json:"date"` // YYYY-MM-DD, defaults to today
	ClientID        int64               `json:"client_id" binding:"required"`
	ConsultationFee *decimal.Decimal    `json:"consultation_fee" binding:"required"`
	Medication      *InvoiceSlotRequest `json:"medication"`
	FoodProduct     *InvoiceSlotRequest `json:"food_product"`
	Consumable      *InvoiceSlotRequest `json:"consumable"`
}

// UpdateInvoiceRequest has the same shape as creation: an update fully
// re-derives the invoice, slots and total included.
type UpdateInvoiceRequest = CreateInvoiceRequest

// InvoiceListResult is a page of invoices plus pagination totals.
type InvoiceListResult struct {
	Invoices   []models.Invoice `json:"data"`
	TotalCount int              `json:"total"`
	TotalPages int              `json:"total_pages"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

// --- InvoiceService Interface ---
type InvoiceService interface {
	CreateInvoice(req CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoiceByID(invoiceID int64) (*models.Invoice, error)
	GetInvoices(page, pageSize int) (*InvoiceListResult, error)
	UpdateInvoice(invoiceID int64, req UpdateInvoiceRequest) (*models.Invoice, error)
	MarkInvoicePaid(invoiceID int64) (*models.Invoice, error)
	DeleteInvoice(invoiceID int64) error
}

// --- invoiceService Implementation ---
type invoiceService struct {
	invoiceRepo     repositories.InvoiceRepository
	stockRepo       repositories.StockRepository
	clientRepo      repositories.ClientRepository
	db              *sql.DB
	defaultPageSize int
}

// NewInvoiceService creates a new instance of InvoiceService.
// defaultPageSize is used by GetInvoices when the caller does not
// provide a page size.
func NewInvoiceService(
	ir repositories.InvoiceRepository,
	sr repositories.StockRepository,
	cr repositories.ClientRepository,
	db *sql.DB,
	defaultPageSize int,
) InvoiceService {
	if defaultPageSize <= 0 {
		defaultPageSize = 5
	}
	return &invoiceService{
		invoiceRepo:     ir,
		stockRepo:       sr,
		clientRepo:      cr,
		db:              db,
		defaultPageSize: defaultPageSize,
	}
}

// resolveSlot turns an optional slot request into a price snapshot. A nil
// request yields a nil line (slot absent). An enabled slot must reference
// an existing stock item of the given category; its current name and sale
// price are copied into the line and frozen there.
func (s *invoiceService) resolveSlot(category string, slot *InvoiceSlotRequest) (*models.InvoiceLine, error) {
	if slot == nil {
		return nil, nil
	}
	if slot.ItemID <= 0 {
		return nil, fmt.Errorf("%w: %s selection is enabled but has no item_id", ErrValidation, category)
	}
	item, err := s.stockRepo.GetStockItemByCategory(category, slot.ItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s with ID %d", ErrStockItemNotFound, category, slot.ItemID)
		}
		return nil, fmt.Errorf("failed to resolve %s slot: %w", category, err)
	}
	return &models.InvoiceLine{
		ItemID:    item.ID,
		Name:      item.Name,
		SalePrice: item.SalePrice,
	}, nil
}

// compose validates the request and builds a fully derived invoice:
// client snapshot taken, slots resolved, total computed. Nothing is
// persisted here, so a failed composition leaves no partial state.
func (s *invoiceService) compose(req CreateInvoiceRequest) (*models.Invoice, error) {
	if req.ConsultationFee == nil {
		return nil, fmt.Errorf("%w: consultation_fee is required", ErrValidation)
	}
	if req.ConsultationFee.IsNegative() {
		return nil, fmt.Errorf("%w: consultation_fee cannot be negative", ErrValidation)
	}
	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: client_id is required", ErrValidation)
	}
	if strings.TrimSpace(req.InvoiceNumber) == "" {
		return nil, fmt.Errorf("%w: invoice_number is required", ErrValidation)
	}

	client, err := s.clientRepo.GetClientByID(req.ClientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %d", ErrClientNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("failed to resolve client for invoice: %w", err)
	}

	date := time.Now()
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		parsed, parseErr := time.Parse("2006-01-02", *req.Date)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrDateFormat, *req.Date)
		}
		date = parsed
	}

	medication, err := s.resolveSlot(models.StockCategoryMedication, req.Medication)
	if err != nil {
		return nil, err
	}
	foodProduct, err := s.resolveSlot(models.StockCategoryFoodProduct, req.FoodProduct)
	if err != nil {
		return nil, err
	}
	consumable, err := s.resolveSlot(models.StockCategoryConsumable, req.Consumable)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceNumber:   req.InvoiceNumber,
		Date:            date,
		ClientID:        client.ID,
		ClientAddress:   client.Address,
		ClientPhone:     client.Phone,
		ConsultationFee: *req.ConsultationFee,
		Medication:      medication,
		FoodProduct:     foodProduct,
		Consumable:      consumable,
	}

	total := *req.ConsultationFee
	for _, line := range invoice.Lines() {
		total = total.Add(line.SalePrice)
	}
	invoice.Total = total

	return invoice, nil
}

// CreateInvoice composes and persists a new invoice. The total is the
// consultation fee plus the sale price of every present slot, and the
// payment status always starts as unpaid.
func (s *invoiceService) CreateInvoice(req CreateInvoiceRequest) (*models.Invoice, error) {
	invoice, err := s.compose(req)
	if err != nil {
		return nil, err
	}
	invoice.PaymentStatus = models.PaymentStatusUnpaid

	id, err := s.invoiceRepo.CreateInvoice(s.db, invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return s.GetInvoiceByID(id)
}

// GetInvoiceByID fetches a single invoice.
func (s *invoiceService) GetInvoiceByID(invoiceID int64) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice by ID: %w", err)
	}
	return invoice, nil
}

// GetInvoices returns a page of invoices in insertion order together
// with the total count and page count.
func (s *invoiceService) GetInvoices(page, pageSize int) (*InvoiceListResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}

	invoices, totalCount, err := s.invoiceRepo.GetInvoices(page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoices: %w", err)
	}

	totalPages := (totalCount + pageSize - 1) / pageSize

	return &InvoiceListResult{
		Invoices:   invoices,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// UpdateInvoice replaces the mutable fields of an invoice and fully
// re-derives the total, re-reading current client data and current slot
// prices. The payment status is not touched.
func (s *invoiceService) UpdateInvoice(invoiceID int64, req UpdateInvoiceRequest) (*models.Invoice, error) {
	existing, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice for update: %w", err)
	}

	invoice, err := s.compose(req)
	if err != nil {
		return nil, err
	}
	invoice.ID = existing.ID
	invoice.PaymentStatus = existing.PaymentStatus
	invoice.CreatedAt = existing.CreatedAt

	if err := s.invoiceRepo.UpdateInvoice(s.db, invoice); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

// MarkInvoicePaid transitions an invoice from unpaid to paid. Marking an
// already-paid invoice is a no-op success; there is no reverse
// transition.
func (s *invoiceService) MarkInvoicePaid(invoiceID int64) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice to mark paid: %w", err)
	}

	if invoice.PaymentStatus == models.PaymentStatusPaid {
		return invoice, nil
	}

	if err := s.invoiceRepo.UpdatePaymentStatus(s.db, invoiceID, models.PaymentStatusPaid, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}
	return s.GetInvoiceByID(invoiceID)
}

// DeleteInvoice removes an invoice with no cascade to referenced entities.
func (s *invoiceService) DeleteInvoice(invoiceID int64) error {
	_, err := s.invoiceRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to find invoice for deletion: %w", err)
	}

	if err := s.invoiceRepo.DeleteInvoice(s.db, invoiceID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}
