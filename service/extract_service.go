package service

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/jimmytdh/prconverter/client"
)

// minUsableTextLength is the acceptance threshold for the text layer of a
// PDF. Shorter extractions are treated as a scanned document and sent down
// the OCR fallback.
const minUsableTextLength = 80

// TextExtractionService produces the best-available text for an uploaded
// PDF: layout text extraction first, then per-page OCR of the embedded
// images. An empty result is not an error here; the caller decides whether
// an empty document is acceptable.
type TextExtractionService struct {
	pdfProcessor    PDFProcessor
	tesseractClient *client.TesseractClient
}

func NewTextExtractionService(pdfProcessor PDFProcessor, tesseractClient *client.TesseractClient) *TextExtractionService {
	return &TextExtractionService{
		pdfProcessor:    pdfProcessor,
		tesseractClient: tesseractClient,
	}
}

// ExtractFromFile runs the extraction fallback chain over a stored PDF.
func (s *TextExtractionService) ExtractFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return s.Extract(data)
}

// Extract runs the extraction fallback chain over raw PDF bytes.
func (s *TextExtractionService) Extract(data []byte) (string, error) {
	text, err := s.pdfProcessor.ExtractText(data)
	if err != nil {
		log.Printf("PDF text extraction failed: %v", err)
	}

	if textIsUsable(text) {
		return text, nil
	}

	log.Println("PDF has minimal embedded text, attempting image-based OCR")

	images, err := s.pdfProcessor.ExtractImages(data)
	if err != nil || len(images) == 0 {
		log.Printf("Failed to extract images from PDF: %v", err)
		return text, nil
	}

	var combined strings.Builder
	var totalConfidence float64
	var pageCount int

	for _, img := range images {
		tempImgFile, err := saveImageToTempFile(img)
		if err != nil {
			log.Printf("Failed to save temporary image for OCR: %v", err)
			continue
		}

		pageText, pageConf, ocrErr := s.tesseractClient.ExtractTextAndQuality(tempImgFile)
		os.Remove(tempImgFile)
		if ocrErr != nil {
			log.Printf("OCR failed for a page: %v", ocrErr)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConfidence += pageConf
		pageCount++
	}

	if pageCount == 0 {
		return text, nil
	}

	log.Printf("OCR produced %d page(s), avg confidence %.1f", pageCount, totalConfidence/float64(pageCount))
	return combined.String(), nil
}

// textIsUsable reports whether an extracted text layer is long enough to
// trust without falling back to OCR.
func textIsUsable(text string) bool {
	return len(strings.TrimSpace(text)) > minUsableTextLength
}

// saveImageToTempFile saves an image.Image to a temporary PNG file.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "ocr-img-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	return tempFile.Name(), nil
}
