package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/logger"
	"github.com/clarainova/clara-backend/internal/pkg/response"
)

type Handler struct {
	usecase       ChatUsecase
	exportUsecase ExportUsecase
	llmConfigured bool
}

func NewHandler(usecase ChatUsecase, exportUsecase ExportUsecase, llmConfigured bool) *Handler {
	return &Handler{
		usecase:       usecase,
		exportUsecase: exportUsecase,
		llmConfigured: llmConfigured,
	}
}

// Chat handles POST /chat with a Server-Sent Events response
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode chat request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "corpo da requisição inválido", entity.CodeValidationError)
		return
	}

	if err := h.usecase.Validate(&req); err != nil {
		ctxzap.Warn(ctx, "chat request rejected", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error(), entity.CodeValidationError)
		return
	}

	if !h.llmConfigured {
		ctxzap.Error(ctx, "LLM provider credentials are missing")
		response.Error(w, http.StatusServiceUnavailable,
			"o provedor do modelo não está configurado", entity.CodeConfigError)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Error(w, http.StatusInternalServerError,
			"streaming não suportado", entity.CodeInternalError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	writer := newSSEWriter(w, flusher)
	if err := h.usecase.StreamChat(ctx, &req, writer.Send); err != nil {
		// The stream is already open; nothing more can reach the client.
		ctxzap.Error(ctx, "chat stream aborted", zap.Error(err))
	}
}

// Export handles POST /chat/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportChat")

	var req entity.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode export request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "corpo da requisição inválido", entity.CodeValidationError)
		return
	}

	export, err := h.exportUsecase.Render(ctx, &req)
	if err != nil {
		if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidFormat) {
			response.Error(w, http.StatusBadRequest, err.Error(), entity.CodeValidationError)
			return
		}
		ctxzap.Error(ctx, "failed to render export", zap.Error(err))
		response.Error(w, http.StatusInternalServerError,
			"erro ao gerar o arquivo", entity.CodeInternalError)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Data)
}
