package websearch

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
)

type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Search returns three results on distinct hosts so quorum checks pass.
func (m *MockConnector) Search(ctx context.Context, query string) ([]entity.WebResult, error) {
	ctxzap.Info(ctx, "[MOCK] web search", zap.String("query", query))

	return []entity.WebResult{
		{
			Title:   "Portal Gov.br - Serviços e Informações",
			URL:     "https://www.gov.br/pt-br/servicos",
			Snippet: "Informações oficiais sobre serviços públicos e procedimentos administrativos. (MOCK)",
		},
		{
			Title:   "Planalto - Legislação Federal",
			URL:     "https://www.planalto.gov.br/legislacao",
			Snippet: "Texto integral da legislação federal brasileira. (MOCK)",
		},
		{
			Title:   "Diário Oficial da União",
			URL:     "https://www.in.gov.br/web/dou",
			Snippet: "Publicações oficiais de atos normativos e administrativos. (MOCK)",
		},
	}, nil
}
