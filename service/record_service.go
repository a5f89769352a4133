package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jimmytdh/prconverter/dto"
	"github.com/jimmytdh/prconverter/export"
	"github.com/jimmytdh/prconverter/parser"
	"github.com/jimmytdh/prconverter/repository"
)

// ErrNoText means the extraction chain produced nothing usable for a file.
// The parse engine itself never fails; an unreadable PDF does.
var ErrNoText = errors.New("no text could be extracted from the document")

var (
	pendingNameRegex = regexp.MustCompile(`^[A-Za-z0-9_\-.]+\.pdf$`)
	unsafeNameChars  = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)
)

// RecordService orchestrates the upload lifecycle: extract text, run the
// parse engine, persist the result and render exports.
type RecordService struct {
	extractor *TextExtractionService
	store     *repository.Store
	uploadDir string
}

func NewRecordService(extractor *TextExtractionService, store *repository.Store, uploadDir string) *RecordService {
	return &RecordService{
		extractor: extractor,
		store:     store,
		uploadDir: uploadDir,
	}
}

// StorePending writes uploaded PDF bytes under the upload directory and
// returns the generated pending file name.
func (s *RecordService) StorePending(originalName string, data []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "document"
	}

	name := fmt.Sprintf("pending_%s_%s_%s.pdf", base, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}
	return name, nil
}

// ParsePending extracts and parses a previously stored pending file.
func (s *RecordService) ParsePending(tempFile string) (dto.PurchaseRequestData, string, error) {
	path, err := s.pendingPath(tempFile)
	if err != nil {
		return dto.PurchaseRequestData{}, "", err
	}

	text, err := s.extractor.ExtractFromFile(path)
	if err != nil {
		return dto.PurchaseRequestData{}, "", err
	}
	if strings.TrimSpace(text) == "" {
		return dto.PurchaseRequestData{}, "", ErrNoText
	}

	return parser.ParsePurchaseRequest(text), text, nil
}

// SavePending re-parses a pending file and persists the record.
func (s *RecordService) SavePending(ctx context.Context, tempFile string) (int64, dto.PurchaseRequestData, error) {
	data, rawText, err := s.ParsePending(tempFile)
	if err != nil {
		return 0, dto.PurchaseRequestData{}, err
	}

	id, err := s.store.SaveRecord(ctx, tempFile, rawText, data)
	if err != nil {
		return 0, dto.PurchaseRequestData{}, err
	}

	log.Printf("Saved purchase request %d from %s with %d item(s)", id, tempFile, len(data.Items))
	return id, data, nil
}

// DiscardPending removes a pending file. The name must validate and the
// file must still exist; a file that vanishes between the existence check
// and the removal is tolerated.
func (s *RecordService) DiscardPending(tempFile string) error {
	path, err := s.pendingPath(tempFile)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove pending file: %w", err)
	}
	return nil
}

// DeleteRecord removes a stored record along with its uploaded PDF.
func (s *RecordService) DeleteRecord(ctx context.Context, id int64) error {
	fileName, err := s.store.DeleteRecord(ctx, id)
	if err != nil {
		return err
	}

	if path := filepath.Join(s.uploadDir, filepath.Base(fileName)); fileName != "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Could not remove stored file %s: %v", fileName, err)
		}
	}
	return nil
}

// ExportRecord renders a stored record into the PR form workbook.
func (s *RecordService) ExportRecord(ctx context.Context, id int64) (string, []byte, error) {
	rec, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return "", nil, err
	}

	data, err := export.BuildPurchaseRequestXLSX(rec)
	if err != nil {
		return "", nil, err
	}
	return export.FileName(rec), data, nil
}

// pendingPath validates a client-supplied pending file name and resolves it
// under the upload directory. The strict pattern keeps path traversal out.
func (s *RecordService) pendingPath(tempFile string) (string, error) {
	name := filepath.Base(tempFile)
	if !pendingNameRegex.MatchString(name) {
		return "", fmt.Errorf("invalid temporary file name")
	}

	path := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("processed file not found: %w", err)
	}
	return path, nil
}
