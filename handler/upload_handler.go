package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jimmytdh/prconverter/dto"
	"github.com/jimmytdh/prconverter/service"
)

// UploadHandler drives the two-phase upload flow: process (extract + parse,
// keep the file pending) and save (persist the pending file), plus cancel.
type UploadHandler struct {
	recordService *service.RecordService
	maxFileSize   int64
}

func NewUploadHandler(recordService *service.RecordService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		recordService: recordService,
		maxFileSize:   maxFileSize,
	}
}

// Process handles POST /records/process
func (h *UploadHandler) Process(c *gin.Context) {
	log.Println("Received purchase request upload")

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "No file uploaded", err)
		return
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		h.sendError(c, http.StatusBadRequest, "Only PDF files are allowed", nil)
		return
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		h.sendError(c, http.StatusBadRequest, "File exceeds the maximum allowed size", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	if http.DetectContentType(data) != "application/pdf" {
		h.sendError(c, http.StatusBadRequest, "Uploaded file is not a valid PDF", nil)
		return
	}

	tempFile, err := h.recordService.StorePending(fileHeader.Filename, data)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Could not store uploaded file", err)
		return
	}

	parsed, _, err := h.recordService.ParsePending(tempFile)
	if err != nil {
		h.recordService.DiscardPending(tempFile)
		if errors.Is(err, service.ErrNoText) {
			h.sendError(c, http.StatusInternalServerError, "Could not extract text from the PDF", err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to process file", err)
		return
	}

	c.JSON(http.StatusOK, dto.ProcessResponse{
		Stage:      "processed",
		Message:    "Processing complete.",
		TempFile:   tempFile,
		ItemsCount: len(parsed.Items),
		Data:       parsed,
	})
}

// Save handles POST /records/save
func (h *UploadHandler) Save(c *gin.Context) {
	tempFile := c.PostForm("temp_file")
	if tempFile == "" {
		h.sendError(c, http.StatusBadRequest, "temp_file is required", nil)
		return
	}

	id, parsed, err := h.recordService.SavePending(c.Request.Context(), tempFile)
	if err != nil {
		if errors.Is(err, service.ErrNoText) {
			h.sendError(c, http.StatusInternalServerError, "Could not extract text from the PDF", err)
			return
		}
		h.sendError(c, http.StatusInternalServerError, "Failed to save entry", err)
		return
	}

	c.JSON(http.StatusOK, dto.SaveResponse{
		Stage:      "saved",
		Message:    "PDF processed and saved.",
		RecordID:   id,
		ItemsCount: len(parsed.Items),
		Data:       parsed,
	})
}

// Cancel handles POST /records/cancel
func (h *UploadHandler) Cancel(c *gin.Context) {
	tempFile := c.PostForm("temp_file")
	if tempFile == "" {
		h.sendError(c, http.StatusBadRequest, "temp_file is required", nil)
		return
	}

	if err := h.recordService.DiscardPending(tempFile); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid temporary file", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stage":   "canceled",
		"message": "Processing canceled.",
	})
}

// sendError sends a structured error response
func (h *UploadHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "UPLOAD_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
