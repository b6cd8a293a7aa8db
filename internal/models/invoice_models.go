package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice payment statuses. An invoice starts unpaid; paid is terminal.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// InvoiceLine is the snapshot of a stock item embedded into an invoice
// slot at selection time. Later changes to the stock item do not
// propagate here; an issued invoice never silently reprices.
type InvoiceLine struct {
	ItemID    int64           `json:"item_id" db:"item_id"`
	Name      string          `json:"name" db:"name"`
	SalePrice decimal.Decimal `json:"sale_price" db:"sale_price"`
}

// Invoice represents a billing document: a consultation fee plus up to
// one medication, one food product and one consumable line. Total is
// always recomputed from the component fields before persistence.
// ClientAddress and ClientPhone are copied from the client when the
// invoice is composed (a snapshot, not a live reference).
type Invoice struct {
	ID              int64           `json:"id" db:"id"`
	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	Date            time.Time       `json:"date" db:"date"`
	ClientID        int64           `json:"client_id" db:"client_id"`
	ClientAddress   string          `json:"client_address" db:"client_address"`
	ClientPhone     string          `json:"client_phone" db:"client_phone"`
	ConsultationFee decimal.Decimal `json:"consultation_fee" db:"consultation_fee"`
	Medication      *InvoiceLine    `json:"medication,omitempty"`
	FoodProduct     *InvoiceLine    `json:"food_product,omitempty"`
	Consumable      *InvoiceLine    `json:"consumable,omitempty"`
	Total           decimal.Decimal `json:"total" db:"total"`
	PaymentStatus   string          `json:"payment_status" db:"payment_status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// Lines returns the present slots in a fixed order (medication, food
// product, consumable). Absent slots are skipped entirely.
func (inv *Invoice) Lines() []InvoiceLine {
	lines := make([]InvoiceLine, 0, 3)
	for _, l := range []*InvoiceLine{inv.Medication, inv.FoodProduct, inv.Consumable} {
		if l != nil {
			lines = append(lines, *l)
		}
	}
	return lines
}
