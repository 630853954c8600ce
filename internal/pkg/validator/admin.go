package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/clarainova/clara-backend/internal/entity"
)

var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

func (v *Validator) ValidateRegisterDocument(req *entity.RegisterDocumentRequest) error {
	if req.Title == "" {
		return fmt.Errorf("%w: title", entity.ErrMissingField)
	}
	if req.StorageKey == "" {
		return fmt.Errorf("%w: storage_key", entity.ErrMissingField)
	}
	if req.ContentType == "" {
		return fmt.Errorf("%w: content_type", entity.ErrMissingField)
	}
	return nil
}

func (v *Validator) ValidateUploadURL(req *entity.UploadURLRequest) error {
	if req.Filename == "" {
		return fmt.Errorf("%w: filename", entity.ErrMissingField)
	}
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !allowedUploadExtensions[ext] {
		return fmt.Errorf("%w: %s (allowed: pdf, docx, txt)", entity.ErrUnsupportedFormat, ext)
	}
	return nil
}

func (v *Validator) ValidateFeedback(req *entity.FeedbackRequest) error {
	if _, err := uuid.Parse(req.QueryID); err != nil {
		return fmt.Errorf("%w: query_id must be a UUID", entity.ErrInvalidParameter)
	}
	if req.Rating < -1 || req.Rating > 5 || req.Rating == 0 {
		return fmt.Errorf("%w: rating", entity.ErrInvalidParameter)
	}
	return nil
}

func (v *Validator) ValidateFrontendError(req *entity.FrontendErrorRequest) error {
	if req.ErrorMessage == "" {
		return fmt.Errorf("%w: error_message", entity.ErrMissingField)
	}
	return nil
}

// SanitizeFilename strips path components and shell-unfriendly
// characters before the name becomes part of a storage key.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
