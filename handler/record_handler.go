package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jimmytdh/prconverter/dto"
	"github.com/jimmytdh/prconverter/parser"
	"github.com/jimmytdh/prconverter/repository"
	"github.com/jimmytdh/prconverter/service"
)

// RecordHandler serves saved purchase request records and their items.
type RecordHandler struct {
	store         *repository.Store
	recordService *service.RecordService
}

func NewRecordHandler(store *repository.Store, recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{
		store:         store,
		recordService: recordService,
	}
}

// List handles GET /records
func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.store.ListRecords(c.Request.Context())
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to list records", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// ListItems handles GET /records/:id/items
func (h *RecordHandler) ListItems(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.sendError(c, http.StatusBadRequest, "Invalid record id", err)
		return
	}

	record, err := h.store.GetRecord(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(c, http.StatusNotFound, "Record not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to load record", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record": record,
		"count":  len(record.Items),
		"items":  record.Items,
	})
}

// SaveItem handles POST /records/:id/items
func (h *RecordHandler) SaveItem(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || recordID <= 0 {
		h.sendError(c, http.StatusBadRequest, "Invalid record id", err)
		return
	}

	var req dto.SaveItemRequest
	if err := c.ShouldBind(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid item payload", err)
		return
	}
	if err := req.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	item := dto.PurchaseRequestItem{
		StockPropertyNo: parser.CleanValue(req.StockPropertyNo),
		Unit:            parser.CleanValue(req.Unit),
		ItemDescription: parser.CleanValue(req.ItemDescription),
		Quantity:        parser.ParseFloat(req.Quantity),
		UnitCost:        parser.ParseMoney(req.UnitCost),
		TotalCost:       parser.ParseMoney(req.TotalCost),
	}

	itemID, count, total, mode, err := h.store.SaveItem(c.Request.Context(), recordID, req.ItemID, item)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(c, http.StatusNotFound, "Record not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to save item", err)
		return
	}

	message := "Item added."
	if mode == "update" {
		message = "Item updated."
	}

	c.JSON(http.StatusOK, dto.ItemSaveResponse{
		Message:        message,
		Mode:           mode,
		ItemID:         itemID,
		RecordID:       recordID,
		RemainingCount: count,
		RecordTotal:    total,
	})
}

// DeleteItem handles DELETE /records/:id/items/:itemID
func (h *RecordHandler) DeleteItem(c *gin.Context) {
	recordID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || recordID <= 0 {
		h.sendError(c, http.StatusBadRequest, "Invalid record id", err)
		return
	}
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil || itemID <= 0 {
		h.sendError(c, http.StatusBadRequest, "Invalid item id", err)
		return
	}

	count, total, err := h.store.DeleteItem(c.Request.Context(), recordID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(c, http.StatusNotFound, "Item not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to delete item", err)
		return
	}

	c.JSON(http.StatusOK, dto.ItemSaveResponse{
		Message:        "Item deleted.",
		Mode:           "delete",
		ItemID:         itemID,
		RecordID:       recordID,
		RemainingCount: count,
		RecordTotal:    total,
	})
}

// Delete handles DELETE /records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.sendError(c, http.StatusBadRequest, "Invalid record id", err)
		return
	}

	if err := h.recordService.DeleteRecord(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(c, http.StatusNotFound, "Record not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to delete record", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Record deleted.",
		"record_id": id,
	})
}

// Export handles GET /records/:id/export
func (h *RecordHandler) Export(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.sendError(c, http.StatusBadRequest, "Invalid record id", err)
		return
	}

	fileName, data, err := h.recordService.ExportRecord(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(c, http.StatusNotFound, "Record not found", nil)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to export record", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(fileName)))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *RecordHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "RECORD_ERROR",
		Message: errorMsg,
		Code:    statusCode,
	})
}
