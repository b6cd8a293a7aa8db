package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"vetcare_backend/internal/services"
	"vetcare_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler holds the invoice service.
type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(is services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: is}
}

// respondInvoiceError maps composer errors onto API responses. Create and
// update share the same error surface.
func respondInvoiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDateFormat):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Referenced client not found.", err.Error()))
	case errors.Is(err, services.ErrStockItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Referenced stock item not found.", err.Error()))
	case errors.Is(err, services.ErrInvoiceNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
	case errors.Is(err, services.ErrInvoiceNumberConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Invoice number already exists.", err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+" invoice.", "Internal error"))
	}
}

// CreateInvoice handles composing a new invoice. The total and payment
// status in the response are derived server-side.
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateInvoice: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(req)
	if err != nil {
		utils.LogError(err, "CreateInvoice: Error from invoiceService.CreateInvoice")
		respondInvoiceError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices handles fetching invoices with pagination.
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0")) // 0 = service default

	result, err := h.invoiceService.GetInvoices(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetInvoices: Error from invoiceService.GetInvoices")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch invoices.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvoiceByID handles fetching a single invoice by ID.
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	idStr := c.Param("id")
	invoiceID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid invoice ID format: "+idStr)
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(invoiceID)
	if err != nil {
		utils.LogError(err, "GetInvoiceByID: Error from invoiceService.GetInvoiceByID for ID "+idStr)
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch invoice.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice handles updating an invoice with full re-derivation of
// the total. Payment status is not affected.
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	idStr := c.Param("id")
	invoiceID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid invoice ID format: "+idStr)
		return
	}

	var req services.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateInvoice: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(invoiceID, req)
	if err != nil {
		utils.LogError(err, "UpdateInvoice: Error from invoiceService.UpdateInvoice for ID "+idStr)
		respondInvoiceError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// MarkInvoicePaid handles the unpaid-to-paid transition. Re-marking an
// already-paid invoice succeeds without change.
func (h *InvoiceHandler) MarkInvoicePaid(c *gin.Context) {
	idStr := c.Param("id")
	invoiceID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid invoice ID format: "+idStr)
		return
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(invoiceID)
	if err != nil {
		utils.LogError(err, "MarkInvoicePaid: Error from invoiceService.MarkInvoicePaid for ID "+idStr)
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to mark invoice paid.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice handles deleting an invoice.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	idStr := c.Param("id")
	invoiceID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid invoice ID format: "+idStr)
		return
	}

	err = h.invoiceService.DeleteInvoice(invoiceID)
	if err != nil {
		utils.LogError(err, "DeleteInvoice: Error from invoiceService.DeleteInvoice for ID "+idStr)
		if errors.Is(err, services.ErrInvoiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete invoice.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
