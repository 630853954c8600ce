package search

import "context"

type Embedder interface {
	EmbedOne(ctx context.Context, input string) ([]float32, error)
}
