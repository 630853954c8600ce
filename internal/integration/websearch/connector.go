package websearch

import (
	"context"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/integration/common"
	pkghttp "github.com/clarainova/clara-backend/pkg/http"
)

type Connector struct {
	config    config.WebSearchConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.WebSearchConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type searchResponse struct {
	Results []entity.WebResult `json:"results"`
}

// Search queries the web search provider and returns ranked results.
func (c *Connector) Search(ctx context.Context, query string) ([]entity.WebResult, error) {
	ctxzap.Info(ctx, "searching the web", zap.String("query", query))

	req := searchRequest{
		Query:      query,
		MaxResults: c.config.MaxResults,
	}

	var resp searchResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.Endpoint, req, &resp); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "web search finished", zap.Int("results", len(resp.Results)))

	return resp.Results, nil
}
