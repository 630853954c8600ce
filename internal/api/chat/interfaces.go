package chat

import (
	"context"

	"github.com/clarainova/clara-backend/internal/entity"
	chatuc "github.com/clarainova/clara-backend/internal/usecase/chat"
	exportuc "github.com/clarainova/clara-backend/internal/usecase/export"
)

type ChatUsecase interface {
	Validate(req *entity.ChatRequest) error
	StreamChat(ctx context.Context, req *entity.ChatRequest, emit chatuc.EmitFunc) error
}

type ExportUsecase interface {
	Render(ctx context.Context, req *entity.ExportRequest) (*exportuc.Export, error)
}
