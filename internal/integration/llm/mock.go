package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
)

// MockConnector answers without a provider, for local development and tests.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

const mockAnswer = "Com base nos documentos disponíveis, o procedimento solicitado deve ser " +
	"iniciado pelo protocolo do órgão responsável, anexando a documentação exigida. " +
	"Consulte a fonte citada para os detalhes de cada etapa. (MOCK)"

func (m *MockConnector) Chat(ctx context.Context, messages []entity.LLMMessage) (*entity.ChatResult, error) {
	ctxzap.Info(ctx, "[MOCK] chat completion", zap.Int("messages", len(messages)))

	return &entity.ChatResult{
		Content: mockAnswer,
		Usage:   &entity.ChatUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

func (m *MockConnector) ChatStream(
	ctx context.Context,
	messages []entity.LLMMessage,
	handler func(entity.ChatStreamDelta) error,
) (*entity.ChatResult, error) {
	ctxzap.Info(ctx, "[MOCK] streamed chat completion", zap.Int("messages", len(messages)))

	words := strings.SplitAfter(mockAnswer, " ")
	var builder strings.Builder
	for _, word := range words {
		builder.WriteString(word)
		if handler != nil {
			if err := handler(entity.ChatStreamDelta{Content: word, FullContent: builder.String()}); err != nil {
				return nil, err
			}
		}
	}
	if handler != nil {
		if err := handler(entity.ChatStreamDelta{FullContent: builder.String(), Done: true}); err != nil {
			return nil, err
		}
	}

	return &entity.ChatResult{
		Content: builder.String(),
		Usage:   &entity.ChatUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

func (m *MockConnector) TranscribeBatch(ctx context.Context, batch *entity.OCRBatch) (string, error) {
	ctxzap.Info(ctx, "[MOCK] transcribing batch",
		zap.Int("first_page", batch.FirstPage),
		zap.Int("last_page", batch.LastPage),
	)

	return fmt.Sprintf("Texto transcrito das páginas %d a %d. (MOCK)", batch.FirstPage, batch.LastPage), nil
}
