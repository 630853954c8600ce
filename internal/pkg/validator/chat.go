package validator

import (
	"fmt"
	"unicode/utf8"

	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
)

// Validator enforces request-shape limits before any expensive work runs.
type Validator struct {
	cfg config.LimitsConfig
}

func NewValidator(cfg config.LimitsConfig) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) ValidateChat(req *entity.ChatRequest) error {
	if req.Message == "" {
		return entity.ErrMessageEmpty
	}
	if utf8.RuneCountInString(req.Message) > v.cfg.MaxMessageChars {
		return fmt.Errorf("%w: maximum %d characters", entity.ErrMessageTooLong, v.cfg.MaxMessageChars)
	}
	if len(req.ConversationHistory) > v.cfg.MaxHistoryTurns {
		return fmt.Errorf("%w: maximum %d turns", entity.ErrHistoryTooLong, v.cfg.MaxHistoryTurns)
	}
	if req.Mode != "" {
		if err := req.Mode.Validate(); err != nil {
			return fmt.Errorf("%w: mode %q", err, req.Mode)
		}
	}
	for _, msg := range req.ConversationHistory {
		if msg.Role != entity.RoleUser && msg.Role != entity.RoleAssistant {
			return fmt.Errorf("%w: role %q", entity.ErrInvalidParameter, msg.Role)
		}
	}
	return nil
}

func (v *Validator) ValidateExport(req *entity.ExportRequest) error {
	if req.Query == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if req.Response == "" {
		return fmt.Errorf("%w: response", entity.ErrMissingField)
	}
	return req.Format.Validate()
}

func (v *Validator) ValidateSearch(req *entity.SearchRequest) error {
	if req.Query == "" {
		return fmt.Errorf("%w: query", entity.ErrMissingField)
	}
	if req.Limit < 0 || req.Limit > v.cfg.MaxSearchResults {
		return fmt.Errorf("%w: limit must be between 0 and %d", entity.ErrInvalidParameter, v.cfg.MaxSearchResults)
	}
	return nil
}
