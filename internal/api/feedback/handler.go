package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/logger"
	"github.com/clarainova/clara-backend/internal/pkg/response"
)

type Handler struct {
	usecase FeedbackUsecase
}

func NewHandler(usecase FeedbackUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// SubmitFeedback handles POST /submit-feedback
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SubmitFeedback")

	var req entity.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode feedback request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "corpo da requisição inválido", entity.CodeValidationError)
		return
	}

	if err := h.usecase.Submit(ctx, &req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}

// LogFrontendError handles POST /log-frontend-error
func (h *Handler) LogFrontendError(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "LogFrontendError")

	var req entity.FrontendErrorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode frontend error request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "corpo da requisição inválido", entity.CodeValidationError)
		return
	}

	if err := h.usecase.LogFrontendError(ctx, &req); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField):
		response.Error(w, http.StatusBadRequest, err.Error(), entity.CodeValidationError)
	case errors.Is(err, entity.ErrAnalyticsNotFound):
		response.Error(w, http.StatusNotFound, "registro não encontrado", entity.CodeValidationError)
	default:
		ctxzap.Error(ctx, "feedback operation failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "erro interno", entity.CodeInternalError)
	}
}
