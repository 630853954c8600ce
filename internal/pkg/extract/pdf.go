package extract

import (
	"bytes"
	"fmt"
	"strings"

	ledpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/clarainova/clara-backend/internal/entity"
)

func (e *Extractor) extractPDF(data []byte) (*Extraction, error) {
	reader, err := ledpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return &Extraction{NeedsOCR: true}, nil
	}

	pages := make([]PageText, 0, numPages)
	totalChars := 0
	var builder strings.Builder

	for i := 1; i <= numPages; i++ {
		text := extractPDFPage(reader, i)
		pages = append(pages, PageText{Number: i, Text: text})
		totalChars += len(text)
		if text != "" {
			builder.WriteString(text)
			builder.WriteString("\n\n")
		}
	}

	avg := float64(totalChars) / float64(numPages)

	return &Extraction{
		Text:            strings.TrimSpace(builder.String()),
		Pages:           pages,
		AvgCharsPerPage: avg,
		NeedsOCR:        avg < float64(e.ocrCharsPerPage),
	}, nil
}

// extractPDFPage never panics the document: a broken page yields "".
func extractPDFPage(reader *ledpdf.Reader, number int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	page := reader.Page(number)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(content)
}

// PDFBatches slices a PDF into page-range sub-documents for the OCR path,
// bounding the size of each multimodal request. A range that cannot be
// sliced degrades to per-page slices; a page that cannot be sliced alone
// is skipped, not fatal to the batch.
func (e *Extractor) PDFBatches(data []byte, batchSize int) ([]entity.OCRBatch, error) {
	if batchSize <= 0 {
		batchSize = 5
	}

	reader, err := ledpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	numPages := reader.NumPage()

	var batches []entity.OCRBatch
	for first := 1; first <= numPages; first += batchSize {
		last := first + batchSize - 1
		if last > numPages {
			last = numPages
		}

		sliced, err := slicePages(data, first, last)
		if err == nil {
			batches = append(batches, entity.OCRBatch{
				Data:      sliced,
				MimeType:  pdfContentType,
				FirstPage: first,
				LastPage:  last,
			})
			continue
		}

		for page := first; page <= last; page++ {
			single, err := slicePages(data, page, page)
			if err != nil {
				continue
			}
			batches = append(batches, entity.OCRBatch{
				Data:      single,
				MimeType:  pdfContentType,
				FirstPage: page,
				LastPage:  page,
			})
		}
	}
	return batches, nil
}

func slicePages(data []byte, first, last int) ([]byte, error) {
	var buf bytes.Buffer
	selection := []string{fmt.Sprintf("%d-%d", first, last)}
	if err := api.Trim(bytes.NewReader(data), &buf, selection, nil); err != nil {
		return nil, fmt.Errorf("slice pages %d-%d: %w", first, last, err)
	}
	return buf.Bytes(), nil
}
