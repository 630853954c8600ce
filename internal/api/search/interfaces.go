package search

import (
	"context"

	"github.com/clarainova/clara-backend/internal/entity"
)

type SearchUsecase interface {
	Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error)
}
