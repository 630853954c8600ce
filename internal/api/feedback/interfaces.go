package feedback

import (
	"context"

	"github.com/clarainova/clara-backend/internal/entity"
)

type FeedbackUsecase interface {
	Submit(ctx context.Context, req *entity.FeedbackRequest) error
	LogFrontendError(ctx context.Context, req *entity.FrontendErrorRequest) error
}
