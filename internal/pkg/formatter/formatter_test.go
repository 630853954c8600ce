package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarainova/clara-backend/internal/entity"
)

func exportFixture() *entity.ExportRequest {
	return &entity.ExportRequest{
		Query:    "Como emitir uma certidão negativa?",
		Response: "Acesse o portal de serviços e solicite a certidão na aba de documentos.",
		Sources: []entity.Source{
			{Kind: entity.SourceKindKnowledgeBase, Title: "Manual de Certidões"},
			{Kind: entity.SourceKindWeb, Title: "Portal Gov.br", URL: "https://www.gov.br/servicos"},
		},
	}
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	t.Run("markdown", func(t *testing.T) {
		f, err := factory.Create(entity.FormatMarkdown)
		require.NoError(t, err)
		assert.Equal(t, ".md", f.FileExtension())
	})

	t.Run("docx", func(t *testing.T) {
		f, err := factory.Create(entity.FormatDOCX)
		require.NoError(t, err)
		assert.Equal(t, ".docx", f.FileExtension())
	})

	t.Run("pdf", func(t *testing.T) {
		f, err := factory.Create(entity.FormatPDF)
		require.NoError(t, err)
		assert.Equal(t, ".pdf", f.FileExtension())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := factory.Create("xlsx")
		assert.Error(t, err)
	})
}

func TestMarkdownFormatter(t *testing.T) {
	f := NewMarkdownFormatter()

	data, err := f.Format(exportFixture())
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "# Conversa com a CLARA\n"))
	assert.Contains(t, out, "**Você:**\n\nComo emitir uma certidão negativa?")
	assert.Contains(t, out, "**CLARA:**\n\nAcesse o portal")
	assert.Contains(t, out, "## Fontes")
	assert.Contains(t, out, "- Manual de Certidões\n")
	assert.Contains(t, out, "- Portal Gov.br (https://www.gov.br/servicos)\n")
	assert.Equal(t, "text/markdown; charset=utf-8", f.ContentType())
}

func TestMarkdownFormatter_NoSources(t *testing.T) {
	f := NewMarkdownFormatter()
	req := exportFixture()
	req.Sources = nil

	data, err := f.Format(req)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Fontes")
}

func TestDOCXFormatter_Metadata(t *testing.T) {
	f := NewDOCXFormatter()

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", f.ContentType())
	assert.Equal(t, ".docx", f.FileExtension())
}

func TestPDFFormatter(t *testing.T) {
	f := NewPDFFormatter()

	data, err := f.Format(exportFixture())
	require.NoError(t, err)
	require.Greater(t, len(data), 5)
	assert.Equal(t, "%PDF-", string(data[:5]))
	assert.Equal(t, "application/pdf", f.ContentType())
}
