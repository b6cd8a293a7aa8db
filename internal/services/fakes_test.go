package services

import (
	"time"

	"vetcare_backend/internal/models"
	"vetcare_backend/internal/repositories"
)

// In-memory repository fakes. They mirror the value semantics of the SQL
// repositories: callers always get copies, never aliases into the store,
// so snapshot behavior is observable the same way it is with a real
// database.

// --- fakeStockRepo ---

type fakeStockRepo struct {
	items  map[int64]models.StockItem
	nextID int64
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{items: make(map[int64]models.StockItem), nextID: 1}
}

func (r *fakeStockRepo) CreateStockItem(_ repositories.SQLExecutor, item *models.StockItem) (int64, error) {
	item.ID = r.nextID
	r.nextID++
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = *item
	return item.ID, nil
}

func (r *fakeStockRepo) GetStockItemByID(id int64) (*models.StockItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &item, nil
}

func (r *fakeStockRepo) GetStockItemByCategory(category string, id int64) (*models.StockItem, error) {
	item, ok := r.items[id]
	if !ok || item.Category != category {
		return nil, repositories.ErrNotFound
	}
	return &item, nil
}

func (r *fakeStockRepo) GetStockItems(category *string, page, pageSize int) ([]models.StockItem, int, error) {
	all := []models.StockItem{}
	for id := int64(1); id < r.nextID; id++ {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		if category != nil && *category != "" && item.Category != *category {
			continue
		}
		all = append(all, item)
	}
	return paginate(all, page, pageSize), len(all), nil
}

func (r *fakeStockRepo) UpdateStockItem(_ repositories.SQLExecutor, item *models.StockItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return repositories.ErrNotFound
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *fakeStockRepo) DeleteStockItem(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// --- fakeClientRepo ---

type fakeClientRepo struct {
	clients map[int64]models.Client
	nextID  int64
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[int64]models.Client), nextID: 1}
}

func (r *fakeClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	for _, existing := range r.clients {
		if existing.Phone == client.Phone {
			return 0, repositories.ErrDuplicateKey
		}
	}
	client.ID = r.nextID
	r.nextID++
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now
	r.clients[client.ID] = *client
	return client.ID, nil
}

func (r *fakeClientRepo) GetClientByID(id int64) (*models.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &client, nil
}

func (r *fakeClientRepo) GetClientByPhone(phone string) (*models.Client, error) {
	for _, client := range r.clients {
		if client.Phone == phone {
			c := client
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeClientRepo) GetClients(page, pageSize int, _ *string) ([]models.Client, int, error) {
	all := []models.Client{}
	for id := int64(1); id < r.nextID; id++ {
		if client, ok := r.clients[id]; ok {
			all = append(all, client)
		}
	}
	return paginate(all, page, pageSize), len(all), nil
}

func (r *fakeClientRepo) UpdateClient(_ repositories.SQLExecutor, client *models.Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) DeleteClient(_ repositories.SQLExecutor, id int64) error {
	if _, ok := r.clients[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.clients, id)
	return nil
}

// --- fakeInvoiceRepo ---

type fakeInvoiceRepo struct {
	invoices []models.Invoice // insertion order
	nextID   int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{nextID: 1}
}

// cloneInvoice deep-copies the slot lines so stored invoices never share
// pointers with callers.
func cloneInvoice(inv models.Invoice) models.Invoice {
	out := inv
	if inv.Medication != nil {
		line := *inv.Medication
		out.Medication = &line
	}
	if inv.FoodProduct != nil {
		line := *inv.FoodProduct
		out.FoodProduct = &line
	}
	if inv.Consumable != nil {
		line := *inv.Consumable
		out.Consumable = &line
	}
	return out
}

func (r *fakeInvoiceRepo) CreateInvoice(_ repositories.SQLExecutor, invoice *models.Invoice) (int64, error) {
	invoice.ID = r.nextID
	r.nextID++
	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	r.invoices = append(r.invoices, cloneInvoice(*invoice))
	return invoice.ID, nil
}

func (r *fakeInvoiceRepo) findIndex(id int64) int {
	for i := range r.invoices {
		if r.invoices[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *fakeInvoiceRepo) GetInvoiceByID(id int64) (*models.Invoice, error) {
	idx := r.findIndex(id)
	if idx < 0 {
		return nil, repositories.ErrNotFound
	}
	inv := cloneInvoice(r.invoices[idx])
	return &inv, nil
}

func (r *fakeInvoiceRepo) GetInvoices(page, pageSize int) ([]models.Invoice, int, error) {
	out := []models.Invoice{}
	for _, inv := range paginate(r.invoices, page, pageSize) {
		out = append(out, cloneInvoice(inv))
	}
	return out, len(r.invoices), nil
}

// UpdateInvoice mirrors the SQL UPDATE: every column except payment
// status and created_at is replaced.
func (r *fakeInvoiceRepo) UpdateInvoice(_ repositories.SQLExecutor, invoice *models.Invoice) error {
	idx := r.findIndex(invoice.ID)
	if idx < 0 {
		return repositories.ErrNotFound
	}
	updated := cloneInvoice(*invoice)
	updated.PaymentStatus = r.invoices[idx].PaymentStatus
	updated.CreatedAt = r.invoices[idx].CreatedAt
	updated.UpdatedAt = time.Now()
	r.invoices[idx] = updated
	return nil
}

func (r *fakeInvoiceRepo) UpdatePaymentStatus(_ repositories.SQLExecutor, id int64, status string, updatedAt time.Time) error {
	idx := r.findIndex(id)
	if idx < 0 {
		return repositories.ErrNotFound
	}
	r.invoices[idx].PaymentStatus = status
	r.invoices[idx].UpdatedAt = updatedAt
	return nil
}

func (r *fakeInvoiceRepo) DeleteInvoice(_ repositories.SQLExecutor, id int64) error {
	idx := r.findIndex(id)
	if idx < 0 {
		return repositories.ErrNotFound
	}
	r.invoices = append(r.invoices[:idx], r.invoices[idx+1:]...)
	return nil
}

// paginate returns the 1-based page window of items.
func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
