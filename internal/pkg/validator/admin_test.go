package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clarainova/clara-backend/internal/entity"
)

func TestValidateRegisterDocument(t *testing.T) {
	v := newTestValidator()

	t.Run("valid", func(t *testing.T) {
		err := v.ValidateRegisterDocument(&entity.RegisterDocumentRequest{
			Title:       "Manual de Protocolo",
			StorageKey:  "uploads/abc/manual.pdf",
			ContentType: "application/pdf",
		})
		assert.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		cases := []entity.RegisterDocumentRequest{
			{StorageKey: "k", ContentType: "application/pdf"},
			{Title: "t", ContentType: "application/pdf"},
			{Title: "t", StorageKey: "k"},
		}
		for _, req := range cases {
			assert.ErrorIs(t, v.ValidateRegisterDocument(&req), entity.ErrMissingField)
		}
	})
}

func TestValidateUploadURL(t *testing.T) {
	v := newTestValidator()

	t.Run("allowed extensions", func(t *testing.T) {
		for _, name := range []string{"doc.pdf", "doc.DOCX", "notas.txt"} {
			assert.NoError(t, v.ValidateUploadURL(&entity.UploadURLRequest{Filename: name}))
		}
	})

	t.Run("missing filename", func(t *testing.T) {
		err := v.ValidateUploadURL(&entity.UploadURLRequest{})
		assert.ErrorIs(t, err, entity.ErrMissingField)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		err := v.ValidateUploadURL(&entity.UploadURLRequest{Filename: "script.exe"})
		assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
	})
}

func TestValidateFeedback(t *testing.T) {
	v := newTestValidator()
	const queryID = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	t.Run("valid ratings", func(t *testing.T) {
		for _, rating := range []int{-1, 1, 3, 5} {
			err := v.ValidateFeedback(&entity.FeedbackRequest{QueryID: queryID, Rating: rating})
			assert.NoError(t, err, "rating %d", rating)
		}
	})

	t.Run("query id must be a uuid", func(t *testing.T) {
		err := v.ValidateFeedback(&entity.FeedbackRequest{QueryID: "not-a-uuid", Rating: 1})
		assert.ErrorIs(t, err, entity.ErrInvalidParameter)
	})

	t.Run("out of range ratings", func(t *testing.T) {
		for _, rating := range []int{0, -2, 6} {
			err := v.ValidateFeedback(&entity.FeedbackRequest{QueryID: queryID, Rating: rating})
			assert.ErrorIs(t, err, entity.ErrInvalidParameter, "rating %d", rating)
		}
	})
}

func TestValidateFrontendError(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateFrontendError(&entity.FrontendErrorRequest{ErrorMessage: "boom"}))
	assert.ErrorIs(t, v.ValidateFrontendError(&entity.FrontendErrorRequest{}), entity.ErrMissingField)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "relatorio_final.pdf", SanitizeFilename("relatorio final.pdf"))
	assert.Equal(t, "anexo1.docx", SanitizeFilename("../../anexo(1).docx"))
	assert.Equal(t, "ata.txt", SanitizeFilename("/tmp/uploads/ata.txt"))
}
