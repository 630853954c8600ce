package llm

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/integration/common"
	pkghttp "github.com/clarainova/clara-backend/pkg/http"
)

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Stream      bool                    `json:"stream"`
	MaxTokens   int                     `json:"max_tokens,omitempty"`
	Temperature float64                 `json:"temperature,omitempty"`
}

type chatCompletionChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
	Usage   *entity.ChatUsage      `json:"usage"`
}

type chatStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *entity.ChatUsage `json:"usage"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

// Chat performs a blocking completion over the full message list.
func (c *Connector) Chat(ctx context.Context, messages []entity.LLMMessage) (*entity.ChatResult, error) {
	ctxzap.Info(ctx, "requesting chat completion", zap.Int("messages", len(messages)))

	req := c.buildRequest(messages, false)

	var resp chatCompletionResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: response contains no choices")
	}

	return &entity.ChatResult{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage:   resp.Usage,
	}, nil
}

// ChatStream performs a streaming completion, invoking handler for every
// delta as it arrives. The accumulated text is returned when the provider
// terminates the stream.
func (c *Connector) ChatStream(
	ctx context.Context,
	messages []entity.LLMMessage,
	handler func(entity.ChatStreamDelta) error,
) (*entity.ChatResult, error) {
	ctxzap.Info(ctx, "requesting streamed chat completion", zap.Int("messages", len(messages)))

	req := c.buildRequest(messages, true)

	var builder strings.Builder
	var usage *entity.ChatUsage

	err := c.connector.DoStream(ctx, http.MethodPost, c.config.ChatEndpoint, req, func(body io.Reader) error {
		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, ":") {
				continue
			}
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(line[len("data:"):])
			if data == "" {
				continue
			}
			if data == "[DONE]" {
				if handler != nil {
					if err := handler(entity.ChatStreamDelta{FullContent: builder.String(), Done: true}); err != nil {
						return err
					}
				}
				return nil
			}

			var chunk chatStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if chunk.Usage != nil {
				usage = chunk.Usage
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				builder.WriteString(choice.Delta.Content)
				if handler == nil {
					continue
				}
				if err := handler(entity.ChatStreamDelta{
					Content:      choice.Delta.Content,
					FullContent:  builder.String(),
					FinishReason: choice.FinishReason,
				}); err != nil {
					return err
				}
			}
		}
		return scanner.Err()
	})
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "streamed chat completion finished", zap.Int("content_length", builder.Len()))

	return &entity.ChatResult{
		Content: builder.String(),
		Usage:   usage,
	}, nil
}

// TranscribeBatch sends one page-range slice of a source document to the
// multimodal model and returns the transcribed text.
func (c *Connector) TranscribeBatch(ctx context.Context, batch *entity.OCRBatch) (string, error) {
	ctxzap.Info(ctx, "transcribing document batch",
		zap.Int("first_page", batch.FirstPage),
		zap.Int("last_page", batch.LastPage),
	)

	dataURL := fmt.Sprintf("data:%s;base64,%s", batch.MimeType, base64.StdEncoding.EncodeToString(batch.Data))

	req := chatCompletionRequest{
		Model: c.config.OCRModel,
		Messages: []chatCompletionMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: ocrPrompt},
					{Type: "image_url", ImageURL: &imageURLPart{URL: dataURL}},
				},
			},
		},
		MaxTokens: c.config.MaxTokens,
	}

	var resp chatCompletionResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.ChatEndpoint, req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("transcription: response contains no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

const ocrPrompt = "Transcreva todo o texto deste documento, preservando a ordem de leitura. " +
	"Retorne apenas o texto transcrito, sem comentários."

func (c *Connector) buildRequest(messages []entity.LLMMessage, stream bool) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:       c.config.Model,
		Stream:      stream,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
		Messages:    make([]chatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = "user"
		}
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		req.Messages = append(req.Messages, chatCompletionMessage{Role: role, Content: msg.Content})
	}
	return req
}
