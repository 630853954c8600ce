package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/logger"
	"github.com/clarainova/clara-backend/internal/pkg/response"
)

type Handler struct {
	usecase DocumentUsecase
	ingest  IngestUsecase
}

func NewHandler(usecase DocumentUsecase, ingest IngestUsecase) *Handler {
	return &Handler{
		usecase: usecase,
		ingest:  ingest,
	}
}

// AdminAuth handles POST /admin-auth. The admin key middleware has already
// validated the header; reaching this handler means the key is good.
func (h *Handler) AdminAuth(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"})
}

// RegisterDocument handles POST /documents
func (h *Handler) RegisterDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "RegisterDocument")

	var req entity.RegisterDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode register request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "corpo da requisição inválido", entity.CodeValidationError)
		return
	}

	doc, err := h.usecase.Register(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, toDocumentDTO(doc))
}

// ListDocuments handles GET /documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	docs, err := h.usecase.List(ctx, skip, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	dtos := make([]*entity.DocumentDTO, 0, len(docs))
	for _, doc := range docs {
		dtos = append(dtos, toDocumentDTO(doc))
	}
	response.Success(w, dtos)
}

// GetDocument handles GET /documents/{document_id}
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetDocument")

	doc, err := h.usecase.Get(ctx, chi.URLParam(r, "document_id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.Success(w, toDocumentDTO(doc))
}

// DeleteDocument handles DELETE /documents/{document_id}
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteDocument")

	if err := h.usecase.Delete(ctx, chi.URLParam(r, "document_id")); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.NoContent(w)
}

// ListEvents handles GET /documents/{document_id}/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListEvents")

	events, err := h.usecase.Events(ctx, chi.URLParam(r, "document_id"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.Success(w, events)
}

// IngestDocument handles POST /documents/{document_id}/ingest
func (h *Handler) IngestDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "IngestDocument")
	documentID := chi.URLParam(r, "document_id")

	if err := h.ingest.StartIngestion(ctx, documentID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "ingestion started", zap.String("document_id", documentID))
	response.Accepted(w, map[string]string{
		"status":  "accepted",
		"message": "o documento está sendo processado",
	})
}

// RetryDocument handles POST /documents/{document_id}/retry
func (h *Handler) RetryDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "RetryDocument")
	documentID := chi.URLParam(r, "document_id")

	if err := h.ingest.Retry(ctx, documentID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "ingestion retry started", zap.String("document_id", documentID))
	response.Accepted(w, map[string]string{
		"status":  "accepted",
		"message": "o processamento será retomado do último lote",
	})
}

// UploadURL handles POST /admin_get_upload_url
func (h *Handler) UploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadURL")

	var req entity.UploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode upload url request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "corpo da requisição inválido", entity.CodeValidationError)
		return
	}

	resp, err := h.usecase.UploadURL(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.Success(w, resp)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrDocumentNotFound):
		response.Error(w, http.StatusNotFound, "documento não encontrado", entity.CodeValidationError)
	case errors.Is(err, entity.ErrIngestionInFlight):
		response.Error(w, http.StatusConflict, "o documento já está sendo processado", entity.CodeValidationError)
	case errors.Is(err, entity.ErrDocumentNotFailed):
		response.Error(w, http.StatusConflict, "apenas documentos com falha podem ser retomados", entity.CodeValidationError)
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrUnsupportedFormat):
		response.Error(w, http.StatusBadRequest, err.Error(), entity.CodeValidationError)
	default:
		ctxzap.Error(ctx, "admin operation failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "erro interno", entity.CodeInternalError)
	}
}
