package extract

import (
	"path/filepath"
	"strings"

	"github.com/clarainova/clara-backend/internal/entity"
)

const (
	pdfContentType  = "application/pdf"
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	txtContentType  = "text/plain"
)

// PageText is the extraction outcome for one page. A page that failed to
// extract carries empty text; extraction never aborts the whole file over
// a single page.
type PageText struct {
	Number int
	Text   string
}

type Extraction struct {
	Text            string
	Pages           []PageText
	AvgCharsPerPage float64
	// NeedsOCR flags a PDF whose selectable text is too sparse to trust,
	// typically a scan. The ingestion orchestrator then routes page
	// batches through the multimodal transcription path.
	NeedsOCR bool
}

// Extractor converts uploaded files into plain text. It is a pure
// transformation: no side effects, failures degrade per page.
type Extractor struct {
	ocrCharsPerPage int
}

func New(ocrCharsPerPage int) *Extractor {
	if ocrCharsPerPage <= 0 {
		ocrCharsPerPage = 100
	}
	return &Extractor{ocrCharsPerPage: ocrCharsPerPage}
}

func (e *Extractor) Extract(data []byte, filename, contentType string) (*Extraction, error) {
	switch detectFormat(filename, contentType) {
	case "pdf":
		return e.extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "txt":
		return extractTXT(data), nil
	default:
		return nil, entity.ErrUnsupportedFormat
	}
}

func detectFormat(filename, contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case pdfContentType:
		return "pdf"
	case docxContentType:
		return "docx"
	case txtContentType, "text/plain; charset=utf-8":
		return "txt"
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf"
	case ".docx":
		return "docx"
	case ".txt", ".md":
		return "txt"
	}
	return ""
}

func extractTXT(data []byte) *Extraction {
	text := strings.TrimSpace(string(data))
	return &Extraction{
		Text:            text,
		Pages:           []PageText{{Number: 1, Text: text}},
		AvgCharsPerPage: float64(len(text)),
	}
}
