package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/config"
	"github.com/clarainova/clara-backend/internal/entity"
	pkghttp "github.com/clarainova/clara-backend/pkg/http"
)

func newTestConnector(serverURL string) *Connector {
	cfg := config.LLMConnectorConfig{
		Model:        "test-model",
		OCRModel:     "test-ocr-model",
		ChatEndpoint: "/v1/chat/completions",
		MaxTokens:    256,
	}
	cfg.URL = serverURL
	return NewConnector(cfg, zap.NewNop())
}

func sseChunk(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": content}},
		},
	})
	return fmt.Sprintf("data: %s\n\n", payload)
}

func TestChatStream_AccumulatesDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["stream"])
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk("Olá, "))
		fmt.Fprint(w, sseChunk("como posso ajudar?"))
		fmt.Fprint(w, "data: {\"choices\":[],\"usage\":{\"prompt_tokens\":10,\"completion_tokens\":5,\"total_tokens\":15}}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	connector := newTestConnector(server.URL)

	var deltas []string
	result, err := connector.ChatStream(context.Background(),
		[]entity.LLMMessage{{Role: "user", Content: "oi"}},
		func(delta entity.ChatStreamDelta) error {
			if !delta.Done {
				deltas = append(deltas, delta.Content)
			}
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"Olá, ", "como posso ajudar?"}, deltas)
	assert.Equal(t, "Olá, como posso ajudar?", result.Content)
	require.NotNil(t, result.Usage)
	assert.Equal(t, 15, result.Usage.TotalTokens)
}

func TestChatStream_IgnoresCommentsAndBlankLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "\n")
		fmt.Fprint(w, sseChunk("resposta"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	connector := newTestConnector(server.URL)

	result, err := connector.ChatStream(context.Background(),
		[]entity.LLMMessage{{Role: "user", Content: "oi"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "resposta", result.Content)
}

func TestChatStream_UpstreamErrorSurfacesStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	connector := newTestConnector(server.URL)

	_, err := connector.ChatStream(context.Background(),
		[]entity.LLMMessage{{Role: "user", Content: "oi"}}, nil)
	require.Error(t, err)

	var httpErr *pkghttp.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestChatStream_HandlerErrorAbortsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk("primeira"))
		fmt.Fprint(w, sseChunk("segunda"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	connector := newTestConnector(server.URL)

	sentinel := errors.New("client disconnected")
	_, err := connector.ChatStream(context.Background(),
		[]entity.LLMMessage{{Role: "user", Content: "oi"}},
		func(entity.ChatStreamDelta) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestChat_Blocking(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  resposta completa  "}}],"usage":{"total_tokens":7}}`)
	}))
	defer server.Close()

	connector := newTestConnector(server.URL)

	result, err := connector.Chat(context.Background(), []entity.LLMMessage{{Role: "user", Content: "oi"}})
	require.NoError(t, err)
	assert.Equal(t, "resposta completa", result.Content)
}

func TestChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	connector := newTestConnector(server.URL)

	_, err := connector.Chat(context.Background(), []entity.LLMMessage{{Role: "user", Content: "oi"}})
	assert.Error(t, err)
}

func TestTranscribeBatch_SendsDataURL(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"texto transcrito"}}]}`)
	}))
	defer server.Close()

	connector := newTestConnector(server.URL)

	text, err := connector.TranscribeBatch(context.Background(), &entity.OCRBatch{
		Data:      []byte("%PDF-fake"),
		MimeType:  "application/pdf",
		FirstPage: 1,
		LastPage:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, "texto transcrito", text)
	assert.Contains(t, string(gotBody), "data:application/pdf;base64,")
	assert.Contains(t, string(gotBody), "test-ocr-model")
}

func TestBuildRequest_SkipsEmptyMessages(t *testing.T) {
	connector := newTestConnector("http://unused")

	req := connector.buildRequest([]entity.LLMMessage{
		{Role: "system", Content: "prompt"},
		{Role: "assistant", Content: "   "},
		{Role: "", Content: "pergunta"},
	}, false)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "user", req.Messages[1].Role)
}
