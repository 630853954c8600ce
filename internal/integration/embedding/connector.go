package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/integration/common"
	pkghttp "github.com/clarainova/clara-backend/pkg/http"
)

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns one vector per input, in input order. A vector of the
// wrong dimension fails the whole batch so no mismatched row ever
// reaches the store.
func (c *Connector) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ctxzap.Info(ctx, "requesting embeddings", zap.Int("inputs", len(inputs)))

	req := embeddingRequest{
		Model: c.config.Model,
		Input: inputs,
	}

	var resp embeddingResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("embeddings: expected %d vectors, got %d", len(inputs), len(resp.Data))
	}

	vectors := make([][]float32, len(inputs))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(inputs) {
			return nil, fmt.Errorf("embeddings: index %d out of range", item.Index)
		}
		if len(item.Embedding) != c.config.Dimension {
			return nil, fmt.Errorf("%w: expected %d, got %d",
				entity.ErrEmbeddingDimension, c.config.Dimension, len(item.Embedding))
		}
		vectors[item.Index] = item.Embedding
	}
	for i, vec := range vectors {
		if vec == nil {
			return nil, fmt.Errorf("embeddings: missing vector for input %d", i)
		}
	}

	return vectors, nil
}

// EmbedOne is a convenience wrapper for single-query embedding.
func (c *Connector) EmbedOne(ctx context.Context, input string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
