package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"vetcare_backend/internal/models"
	"vetcare_backend/internal/services"
	"vetcare_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StockHandler holds the stock service.
type StockHandler struct {
	stockService services.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ss services.StockService) *StockHandler {
	return &StockHandler{stockService: ss}
}

// CreateStockItem handles the creation of a new stock item. The sale
// price in the response is derived, never taken from the payload.
func (h *StockHandler) CreateStockItem(c *gin.Context) {
	var req services.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStockItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.stockService.CreateStockItem(req)
	if err != nil {
		utils.LogError(err, "CreateStockItem: Error from stockService.CreateStockItem")
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrInvalidCategory) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create stock item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetStockItems handles fetching stock items with pagination and an
// optional category filter.
func (h *StockHandler) GetStockItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	category := utils.NewNullString(c.Query("category"))

	items, totalCount, err := h.stockService.GetStockItems(category, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetStockItems: Error from stockService.GetStockItems")
		if errors.Is(err, services.ErrInvalidCategory) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock items.", "Internal error"))
		}
		return
	}

	if items == nil {
		items = []models.StockItem{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      items,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetStockItemByID handles fetching a single stock item by ID.
func (h *StockHandler) GetStockItemByID(c *gin.Context) {
	idStr := c.Param("id")
	itemID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid stock item ID format: "+idStr)
		return
	}

	item, err := h.stockService.GetStockItemByID(itemID)
	if err != nil {
		utils.LogError(err, "GetStockItemByID: Error from stockService.GetStockItemByID for ID "+idStr)
		if errors.Is(err, services.ErrStockItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Stock item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateStockItem handles updating a stock item; the sale price is
// re-derived from the effective cost and margin.
func (h *StockHandler) UpdateStockItem(c *gin.Context) {
	idStr := c.Param("id")
	itemID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid stock item ID format: "+idStr)
		return
	}

	var req services.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateStockItem: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.stockService.UpdateStockItem(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateStockItem: Error from stockService.UpdateStockItem for ID "+idStr)
		if errors.Is(err, services.ErrStockItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Stock item not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update stock item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteStockItem handles deleting a stock item.
func (h *StockHandler) DeleteStockItem(c *gin.Context) {
	idStr := c.Param("id")
	itemID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid stock item ID format: "+idStr)
		return
	}

	err = h.stockService.DeleteStockItem(itemID)
	if err != nil {
		utils.LogError(err, "DeleteStockItem: Error from stockService.DeleteStockItem for ID "+idStr)
		if errors.Is(err, services.ErrStockItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Stock item not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete stock item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock item deleted successfully"})
}
