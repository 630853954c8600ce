package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers admin routes. The rate limiter runs before the
// key check so brute-forcing the admin key hits the limiter first.
func RegisterRoutes(r chi.Router, h *Handler, rateLimit, auth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(auth)

		r.Post("/admin-auth", h.AdminAuth)
		r.Post("/admin_get_upload_url", h.UploadURL)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", h.RegisterDocument)
			r.Get("/", h.ListDocuments)

			r.Route("/{document_id}", func(r chi.Router) {
				r.Get("/", h.GetDocument)
				r.Delete("/", h.DeleteDocument)
				r.Get("/events", h.ListEvents)
				r.Post("/ingest", h.IngestDocument)
				r.Post("/retry", h.RetryDocument)
			})
		})
	})
}
