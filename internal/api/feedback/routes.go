package feedback

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers feedback routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/submit-feedback", h.SubmitFeedback)
	r.Post("/log-frontend-error", h.LogFrontendError)
}
