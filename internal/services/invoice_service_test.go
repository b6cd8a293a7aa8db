package services

import (
	"errors"
	"fmt"
	"testing"

	"vetcare_backend/internal/models"
)

type invoiceFixture struct {
	invoiceRepo *fakeInvoiceRepo
	stockRepo   *fakeStockRepo
	clientRepo  *fakeClientRepo
	svc         InvoiceService
	clientID    int64
}

// newInvoiceFixture wires the invoice service against in-memory fakes and
// seeds one client.
func newInvoiceFixture(t *testing.T) *invoiceFixture {
	t.Helper()
	f := &invoiceFixture{
		invoiceRepo: newFakeInvoiceRepo(),
		stockRepo:   newFakeStockRepo(),
		clientRepo:  newFakeClientRepo(),
	}
	f.svc = NewInvoiceService(f.invoiceRepo, f.stockRepo, f.clientRepo, nil, 5)

	clientID, err := f.clientRepo.CreateClient(nil, &models.Client{
		FirstName: "Aigerim",
		LastName:  "Bekova",
		Address:   "12 Abay Ave, Almaty",
		Phone:     "+77010000001",
	})
	if err != nil {
		t.Fatalf("failed to seed client: %v", err)
	}
	f.clientID = clientID
	return f
}

// addStockItem seeds a stock item with an already-derived sale price.
func (f *invoiceFixture) addStockItem(t *testing.T, name, category, salePrice string) int64 {
	t.Helper()
	id, err := f.stockRepo.CreateStockItem(nil, &models.StockItem{
		Name:      name,
		Category:  category,
		SalePrice: d(salePrice),
		Margin:    d("1.2"),
	})
	if err != nil {
		t.Fatalf("failed to seed stock item: %v", err)
	}
	return id
}

func TestCreateInvoiceComputesTotal(t *testing.T) {
	f := newInvoiceFixture(t)
	medID := f.addStockItem(t, "Amoxicillin 250mg", models.StockCategoryMedication, "12")

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-001",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
		Medication:      &InvoiceSlotRequest{ItemID: medID},
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	if !invoice.Total.Equal(d("42")) {
		t.Errorf("total = %s, want 42", invoice.Total)
	}
	if invoice.PaymentStatus != models.PaymentStatusUnpaid {
		t.Errorf("payment status = %q, want %q", invoice.PaymentStatus, models.PaymentStatusUnpaid)
	}
	if invoice.Medication == nil {
		t.Fatal("expected a medication line on the invoice")
	}
	if invoice.Medication.ItemID != medID || invoice.Medication.Name != "Amoxicillin 250mg" || !invoice.Medication.SalePrice.Equal(d("12")) {
		t.Errorf("medication line = %+v, want snapshot of seeded item", invoice.Medication)
	}
	if invoice.ClientAddress != "12 Abay Ave, Almaty" || invoice.ClientPhone != "+77010000001" {
		t.Errorf("client snapshot = %q / %q, want seeded address and phone", invoice.ClientAddress, invoice.ClientPhone)
	}
}

func TestCreateInvoiceAbsentSlotsExcluded(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-002",
		ClientID:        f.clientID,
		ConsultationFee: dptr("25.50"),
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	if invoice.Medication != nil || invoice.FoodProduct != nil || invoice.Consumable != nil {
		t.Error("expected all slots to be absent")
	}
	if !invoice.Total.Equal(d("25.50")) {
		t.Errorf("total = %s, want 25.50 (consultation fee only)", invoice.Total)
	}
	if got := len(invoice.Lines()); got != 0 {
		t.Errorf("Lines() returned %d lines, want 0", got)
	}
}

func TestCreateInvoiceAllSlots(t *testing.T) {
	f := newInvoiceFixture(t)
	medID := f.addStockItem(t, "Meloxicam", models.StockCategoryMedication, "18.40")
	foodID := f.addStockItem(t, "Hills i/d 1.5kg", models.StockCategoryFoodProduct, "29.90")
	consID := f.addStockItem(t, "Bandage roll", models.StockCategoryConsumable, "3.20")

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-003",
		ClientID:        f.clientID,
		ConsultationFee: dptr("40"),
		Medication:      &InvoiceSlotRequest{ItemID: medID},
		FoodProduct:     &InvoiceSlotRequest{ItemID: foodID},
		Consumable:      &InvoiceSlotRequest{ItemID: consID},
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	// 40 + 18.40 + 29.90 + 3.20
	if !invoice.Total.Equal(d("91.50")) {
		t.Errorf("total = %s, want 91.50", invoice.Total)
	}
	if got := len(invoice.Lines()); got != 3 {
		t.Errorf("Lines() returned %d lines, want 3", got)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	f := newInvoiceFixture(t)
	medID := f.addStockItem(t, "Amoxicillin 250mg", models.StockCategoryMedication, "12")

	tests := []struct {
		name    string
		req     CreateInvoiceRequest
		wantErr error
	}{
		{
			"missing consultation fee",
			CreateInvoiceRequest{InvoiceNumber: "INV-010", ClientID: f.clientID},
			ErrValidation,
		},
		{
			"negative consultation fee",
			CreateInvoiceRequest{InvoiceNumber: "INV-011", ClientID: f.clientID, ConsultationFee: dptr("-1")},
			ErrValidation,
		},
		{
			"missing invoice number",
			CreateInvoiceRequest{InvoiceNumber: " ", ClientID: f.clientID, ConsultationFee: dptr("30")},
			ErrValidation,
		},
		{
			"missing client",
			CreateInvoiceRequest{InvoiceNumber: "INV-012", ClientID: 0, ConsultationFee: dptr("30")},
			ErrValidation,
		},
		{
			"unknown client",
			CreateInvoiceRequest{InvoiceNumber: "INV-013", ClientID: 999, ConsultationFee: dptr("30")},
			ErrClientNotFound,
		},
		{
			"enabled slot without item id",
			CreateInvoiceRequest{InvoiceNumber: "INV-014", ClientID: f.clientID, ConsultationFee: dptr("30"), Medication: &InvoiceSlotRequest{}},
			ErrValidation,
		},
		{
			"unknown stock item",
			CreateInvoiceRequest{InvoiceNumber: "INV-015", ClientID: f.clientID, ConsultationFee: dptr("30"), Medication: &InvoiceSlotRequest{ItemID: 999}},
			ErrStockItemNotFound,
		},
		{
			"item of the wrong category",
			CreateInvoiceRequest{InvoiceNumber: "INV-016", ClientID: f.clientID, ConsultationFee: dptr("30"), FoodProduct: &InvoiceSlotRequest{ItemID: medID}},
			ErrStockItemNotFound,
		},
		{
			"malformed date",
			CreateInvoiceRequest{InvoiceNumber: "INV-017", ClientID: f.clientID, ConsultationFee: dptr("30"), Date: strptr("17-08-2026")},
			ErrDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateInvoice(tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateInvoice error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Failed compositions must leave nothing behind.
	if _, count, _ := f.invoiceRepo.GetInvoices(1, 100); count != 0 {
		t.Errorf("invoice count after failed creations = %d, want 0", count)
	}
}

func TestInvoiceSnapshotSurvivesStockChanges(t *testing.T) {
	f := newInvoiceFixture(t)
	medID := f.addStockItem(t, "Amoxicillin 250mg", models.StockCategoryMedication, "12")

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-020",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
		Medication:      &InvoiceSlotRequest{ItemID: medID},
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	// Reprice and rename the stock item after the invoice was issued.
	item := f.stockRepo.items[medID]
	item.Name = "Amoxicillin 500mg"
	item.SalePrice = d("99")
	f.stockRepo.items[medID] = item

	fetched, err := f.svc.GetInvoiceByID(invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoiceByID returned error: %v", err)
	}
	if fetched.Medication.Name != "Amoxicillin 250mg" || !fetched.Medication.SalePrice.Equal(d("12")) {
		t.Errorf("snapshot changed after stock update: %+v", fetched.Medication)
	}
	if !fetched.Total.Equal(d("42")) {
		t.Errorf("total changed after stock update: %s, want 42", fetched.Total)
	}

	// Deleting the item must not disturb the invoice either.
	if err := f.stockRepo.DeleteStockItem(nil, medID); err != nil {
		t.Fatalf("DeleteStockItem returned error: %v", err)
	}
	fetched, err = f.svc.GetInvoiceByID(invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoiceByID after item deletion returned error: %v", err)
	}
	if fetched.Medication == nil || !fetched.Medication.SalePrice.Equal(d("12")) {
		t.Errorf("snapshot lost after stock item deletion: %+v", fetched.Medication)
	}
}

func TestUpdateInvoiceRederivesFromCurrentPrices(t *testing.T) {
	f := newInvoiceFixture(t)
	medID := f.addStockItem(t, "Amoxicillin 250mg", models.StockCategoryMedication, "12")

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-030",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
		Medication:      &InvoiceSlotRequest{ItemID: medID},
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	item := f.stockRepo.items[medID]
	item.SalePrice = d("15")
	f.stockRepo.items[medID] = item

	updated, err := f.svc.UpdateInvoice(invoice.ID, UpdateInvoiceRequest{
		InvoiceNumber:   "INV-030",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
		Medication:      &InvoiceSlotRequest{ItemID: medID},
	})
	if err != nil {
		t.Fatalf("UpdateInvoice returned error: %v", err)
	}
	if !updated.Medication.SalePrice.Equal(d("15")) {
		t.Errorf("updated line price = %s, want re-read price 15", updated.Medication.SalePrice)
	}
	if !updated.Total.Equal(d("45")) {
		t.Errorf("updated total = %s, want 45", updated.Total)
	}
}

func TestUpdateInvoiceCanDropSlot(t *testing.T) {
	f := newInvoiceFixture(t)
	consID := f.addStockItem(t, "Bandage roll", models.StockCategoryConsumable, "3.20")

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-031",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
		Consumable:      &InvoiceSlotRequest{ItemID: consID},
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}
	if !invoice.Total.Equal(d("33.20")) {
		t.Fatalf("initial total = %s, want 33.20", invoice.Total)
	}

	updated, err := f.svc.UpdateInvoice(invoice.ID, UpdateInvoiceRequest{
		InvoiceNumber:   "INV-031",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
	})
	if err != nil {
		t.Fatalf("UpdateInvoice returned error: %v", err)
	}
	if updated.Consumable != nil {
		t.Errorf("consumable slot survived the update: %+v", updated.Consumable)
	}
	if !updated.Total.Equal(d("30")) {
		t.Errorf("total after dropping slot = %s, want 30", updated.Total)
	}
}

func TestUpdateInvoicePreservesPaymentStatus(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-032",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}
	if _, err := f.svc.MarkInvoicePaid(invoice.ID); err != nil {
		t.Fatalf("MarkInvoicePaid returned error: %v", err)
	}

	updated, err := f.svc.UpdateInvoice(invoice.ID, UpdateInvoiceRequest{
		InvoiceNumber:   "INV-032-R1",
		ClientID:        f.clientID,
		ConsultationFee: dptr("35"),
	})
	if err != nil {
		t.Fatalf("UpdateInvoice returned error: %v", err)
	}
	if updated.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("payment status after update = %q, want %q", updated.PaymentStatus, models.PaymentStatusPaid)
	}
	if !updated.Total.Equal(d("35")) {
		t.Errorf("total after update = %s, want 35", updated.Total)
	}
}

func TestMarkInvoicePaidIsIdempotent(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-040",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	paid, err := f.svc.MarkInvoicePaid(invoice.ID)
	if err != nil {
		t.Fatalf("MarkInvoicePaid returned error: %v", err)
	}
	if paid.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("payment status = %q, want %q", paid.PaymentStatus, models.PaymentStatusPaid)
	}

	again, err := f.svc.MarkInvoicePaid(invoice.ID)
	if err != nil {
		t.Fatalf("second MarkInvoicePaid returned error: %v", err)
	}
	if again.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("payment status after repeat = %q, want %q", again.PaymentStatus, models.PaymentStatusPaid)
	}
	if !again.Total.Equal(paid.Total) {
		t.Errorf("total changed on repeated mark-paid: %s vs %s", again.Total, paid.Total)
	}
}

func TestMarkInvoicePaidNotFound(t *testing.T) {
	f := newInvoiceFixture(t)

	if _, err := f.svc.MarkInvoicePaid(404); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("MarkInvoicePaid error = %v, want ErrInvoiceNotFound", err)
	}
}

func TestGetInvoicesPagination(t *testing.T) {
	f := newInvoiceFixture(t)

	const totalInvoices = 12
	for i := 1; i <= totalInvoices; i++ {
		_, err := f.svc.CreateInvoice(CreateInvoiceRequest{
			InvoiceNumber:   fmt.Sprintf("INV-%03d", i),
			ClientID:        f.clientID,
			ConsultationFee: dptr("30"),
		})
		if err != nil {
			t.Fatalf("CreateInvoice %d returned error: %v", i, err)
		}
	}

	tests := []struct {
		name          string
		pageSize      int
		wantPages     int
		wantPageSizes []int
	}{
		{"default page size", 0, 3, []int{5, 5, 2}},
		{"exact multiple", 4, 3, []int{4, 4, 4}},
		{"single page", 20, 1, []int{12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := 0
			var lastID int64
			for page := 1; page <= tt.wantPages; page++ {
				result, err := f.svc.GetInvoices(page, tt.pageSize)
				if err != nil {
					t.Fatalf("GetInvoices(page=%d) returned error: %v", page, err)
				}
				if result.TotalCount != totalInvoices {
					t.Errorf("page %d: total = %d, want %d", page, result.TotalCount, totalInvoices)
				}
				if result.TotalPages != tt.wantPages {
					t.Errorf("page %d: total pages = %d, want %d", page, result.TotalPages, tt.wantPages)
				}
				if len(result.Invoices) != tt.wantPageSizes[page-1] {
					t.Errorf("page %d: got %d invoices, want %d", page, len(result.Invoices), tt.wantPageSizes[page-1])
				}
				for _, inv := range result.Invoices {
					if inv.ID <= lastID {
						t.Errorf("invoices out of order: ID %d after %d", inv.ID, lastID)
					}
					lastID = inv.ID
				}
				seen += len(result.Invoices)
			}
			if seen != totalInvoices {
				t.Errorf("pages covered %d invoices, want every one of %d exactly once", seen, totalInvoices)
			}
		})
	}
}

func TestDeleteInvoice(t *testing.T) {
	f := newInvoiceFixture(t)

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-050",
		ClientID:        f.clientID,
		ConsultationFee: dptr("30"),
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}

	if err := f.svc.DeleteInvoice(invoice.ID); err != nil {
		t.Fatalf("DeleteInvoice returned error: %v", err)
	}
	if _, err := f.svc.GetInvoiceByID(invoice.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("GetInvoiceByID after delete = %v, want ErrInvoiceNotFound", err)
	}
	if err := f.svc.DeleteInvoice(invoice.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("second DeleteInvoice = %v, want ErrInvoiceNotFound", err)
	}
}

// Full flow: price a medication, compose an invoice around it, settle it.
func TestInvoiceLifecycle(t *testing.T) {
	f := newInvoiceFixture(t)
	stockSvc := NewStockService(f.stockRepo, nil)

	item, err := stockSvc.CreateStockItem(CreateStockItemRequest{
		Name:         "Frontline spray",
		Category:     models.StockCategoryMedication,
		PurchaseCost: d("100"),
		Margin:       d("1.3"),
	})
	if err != nil {
		t.Fatalf("CreateStockItem returned error: %v", err)
	}
	if !item.SalePrice.Equal(d("130")) {
		t.Fatalf("derived sale price = %s, want 130", item.SalePrice)
	}

	invoice, err := f.svc.CreateInvoice(CreateInvoiceRequest{
		InvoiceNumber:   "INV-060",
		Date:            strptr("2026-08-17"),
		ClientID:        f.clientID,
		ConsultationFee: dptr("40"),
		Medication:      &InvoiceSlotRequest{ItemID: item.ID},
	})
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}
	if !invoice.Total.Equal(d("170")) {
		t.Errorf("total = %s, want 170", invoice.Total)
	}
	if got := invoice.Date.Format("2006-01-02"); got != "2026-08-17" {
		t.Errorf("invoice date = %s, want 2026-08-17", got)
	}

	paid, err := f.svc.MarkInvoicePaid(invoice.ID)
	if err != nil {
		t.Fatalf("MarkInvoicePaid returned error: %v", err)
	}
	if paid.PaymentStatus != models.PaymentStatusPaid {
		t.Errorf("payment status = %q, want %q", paid.PaymentStatus, models.PaymentStatusPaid)
	}
	if !paid.Total.Equal(d("170")) {
		t.Errorf("total after settling = %s, want 170", paid.Total)
	}
}
