package formatter

import (
	"fmt"

	"github.com/clarainova/clara-backend/internal/entity"
)

const (
	baseTitle      = "Conversa com a CLARA"
	userLabel      = "Você"
	assistantLabel = "CLARA"
	sourcesLabel   = "Fontes"
)

type Formatter interface {
	Format(req *entity.ExportRequest) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func sourceLine(src entity.Source) string {
	if src.URL != "" {
		return fmt.Sprintf("%s (%s)", src.Title, src.URL)
	}
	return src.Title
}
