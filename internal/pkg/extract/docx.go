package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/document"
)

func extractDOCX(data []byte) (*Extraction, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	var builder strings.Builder
	for _, para := range doc.Paragraphs() {
		var line strings.Builder
		for _, run := range para.Runs() {
			line.WriteString(run.Text())
		}
		if text := strings.TrimSpace(line.String()); text != "" {
			builder.WriteString(text)
			builder.WriteString("\n\n")
		}
	}

	text := strings.TrimSpace(builder.String())

	return &Extraction{
		Text:            text,
		Pages:           []PageText{{Number: 1, Text: text}},
		AvgCharsPerPage: float64(len(text)),
	}, nil
}
