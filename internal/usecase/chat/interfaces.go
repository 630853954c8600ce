package chat

import (
	"context"

	"github.com/clarainova/clara-backend/internal/entity"
)

type LLMConnector interface {
	ChatStream(ctx context.Context, messages []entity.LLMMessage, handler func(entity.ChatStreamDelta) error) (*entity.ChatResult, error)
}

type WebSearchConnector interface {
	Search(ctx context.Context, query string) ([]entity.WebResult, error)
}

type Retriever interface {
	Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error)
}
