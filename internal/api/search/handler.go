package search

import (
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
	usecase SearchUsecase
}

func NewHandler(usecase SearchUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Search handles POST /search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Search")

	var req entity.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode search request", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "corpo da requisição inválido", entity.CodeValidationError)
		return
	}

	resp, err := h.usecase.Search(ctx, &req)
	if err != nil {
		if errors.Is(err, entity.ErrMissingField) || errors.Is(err, entity.ErrInvalidParameter) {
			response.Error(w, http.StatusBadRequest, err.Error(), entity.CodeValidationError)
			return
		}
		ctxzap.Error(ctx, "search failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "erro na busca", entity.CodeInternalError)
		return
	}

	response.Success(w, resp)
}
