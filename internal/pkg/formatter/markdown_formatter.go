package formatter

import (
	"bytes"
	"fmt"

	"github.com/clarainova/clara-backend/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(req *entity.ExportRequest) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	fmt.Fprintf(&buf, "**%s:**\n\n%s\n\n", userLabel, req.Query)
	fmt.Fprintf(&buf, "**%s:**\n\n%s\n", assistantLabel, req.Response)
	if len(req.Sources) > 0 {
		fmt.Fprintf(&buf, "\n## %s\n\n", sourcesLabel)
		for _, src := range req.Sources {
			fmt.Fprintf(&buf, "- %s\n", sourceLine(src))
		}
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
