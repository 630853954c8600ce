package ingest

import (
	"context"

	"github.com/clarainova/clara-backend/internal/entity"
)

type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

type Transcriber interface {
	TranscribeBatch(ctx context.Context, batch *entity.OCRBatch) (string, error)
}

type ObjectStore interface {
	GetObject(ctx context.Context, storageKey string) ([]byte, error)
	RemoveObject(ctx context.Context, storageKey string) error
}
