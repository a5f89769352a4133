package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jimmytdh/prconverter/dto"
	"github.com/jimmytdh/prconverter/repository"
	"github.com/jimmytdh/prconverter/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	store, err := repository.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	recordService := service.NewRecordService(nil, store, dir)
	recordHandler := NewRecordHandler(store, recordService)
	uploadHandler := NewUploadHandler(recordService, 10*1024*1024)

	router := gin.New()
	records := router.Group("/api/v1/records")
	{
		records.POST("/cancel", uploadHandler.Cancel)
		records.GET("", recordHandler.List)
		records.GET("/:id/items", recordHandler.ListItems)
		records.POST("/:id/items", recordHandler.SaveItem)
		records.DELETE("/:id/items/:itemID", recordHandler.DeleteItem)
		records.DELETE("/:id", recordHandler.Delete)
	}
	return router, store
}

func TestListRecordsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestListItemsUnknownRecord(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/99/items", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveItemRejectsEmptyPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/1/items",
		strings.NewReader(url.Values{}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveItemUnknownRecord(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{}
	form.Set("item_description", "BOND PAPER")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/99/items",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveItemCreate(t *testing.T) {
	router, store := newTestRouter(t)

	id, err := store.SaveRecord(context.Background(), "pr.pdf", "", dto.PurchaseRequestData{})
	assert.NoError(t, err)

	form := url.Values{}
	form.Set("item_description", "BOND PAPER A4")
	form.Set("unit", "ream")
	form.Set("quantity", "10")
	form.Set("unit_cost", "250")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/records/%d/items", id),
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"create"`)
	assert.Contains(t, w.Body.String(), `"record_total_cost":2500`)
}

func TestDeleteRecordInvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/records/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelUnknownPendingFile(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{}
	form.Set("temp_file", "pending_missing_20250101_000000_deadbeef.pdf")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/cancel",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
