package admin

import (
	"context"

	"github.com/clarainova/clara-backend/internal/entity"
)

type DocumentUsecase interface {
	Register(ctx context.Context, req *entity.RegisterDocumentRequest) (*entity.Document, error)
	Get(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, skip, limit int) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
	Events(ctx context.Context, id string) ([]*entity.ProcessingEvent, error)
	UploadURL(ctx context.Context, req *entity.UploadURLRequest) (*entity.UploadURLResponse, error)
}

type IngestUsecase interface {
	StartIngestion(ctx context.Context, documentID string) error
	Retry(ctx context.Context, documentID string) error
}
