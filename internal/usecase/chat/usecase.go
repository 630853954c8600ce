package chat

import (
	"context"
	"errors"
	"net/url"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/validator"
	"github.com/clarainova/clara-backend/internal/repository"
	pkghttp "github.com/clarainova/clara-backend/pkg/http"
)

const (
	// autoThreshold is the combined-score floor below which auto mode
	// considers the local context too weak and reaches for the web.
	autoThreshold = 0.35

	// webQuorum is the minimum number of distinct hosts deep mode
	// requires before web results may ground an answer.
	webQuorum = 3

	quorumNotice = "Não encontrei fontes independentes suficientes na web; " +
		"a resposta abaixo se baseia apenas na base de conhecimento local."
)

// EmitFunc relays one stream event to the connected client.
type EmitFunc func(event string, payload any) error

// ChatUsecase orchestrates a chat turn: scope check, retrieval, optional
// web augmentation, streamed generation, analytics.
type ChatUsecase struct {
	retriever     Retriever
	llm           LLMConnector
	webSearcher   WebSearchConnector
	analyticsRepo repository.AnalyticsRepository
	validator     *validator.Validator
	logger        *zap.Logger
}

func NewUsecase(
	retriever Retriever,
	llm LLMConnector,
	webSearcher WebSearchConnector,
	analyticsRepo repository.AnalyticsRepository,
	validator *validator.Validator,
	logger *zap.Logger,
) *ChatUsecase {
	return &ChatUsecase{
		retriever:     retriever,
		llm:           llm,
		webSearcher:   webSearcher,
		analyticsRepo: analyticsRepo,
		validator:     validator,
		logger:        logger,
	}
}

// Validate runs the pre-stream gates. Violations must be rejected before
// any provider call and before the response switches to an event stream.
func (uc *ChatUsecase) Validate(req *entity.ChatRequest) error {
	return uc.validator.ValidateChat(req)
}

// StreamChat runs one turn, relaying events through emit. Once streaming
// has begun, failures surface as error events rather than return values.
func (uc *ChatUsecase) StreamChat(ctx context.Context, req *entity.ChatRequest, emit EmitFunc) error {
	mode := req.Mode
	if mode == "" {
		mode = entity.ChatModeAuto
	}

	if !InScope(req.Message) {
		ctxzap.Info(ctx, "query out of scope, refusing without provider call")
		if err := emit(entity.StreamEventDelta, entity.StreamDeltaPayload{Delta: RefusalMessage, Full: RefusalMessage}); err != nil {
			return err
		}
		return emit(entity.StreamEventDone, entity.StreamDonePayload{Status: "done"})
	}

	searchResp, err := uc.retriever.Search(ctx, &entity.SearchRequest{Query: req.Message})
	if err != nil {
		ctxzap.Error(ctx, "retrieval failed", zap.Error(err))
		return uc.emitError(ctx, emit, err)
	}
	results := searchResp.Results

	webResults, notice := uc.augment(ctx, mode, req.Message, results)
	if notice != "" {
		if err := emit(entity.StreamEventNotice, entity.StreamNoticePayload{Message: notice}); err != nil {
			return err
		}
	}

	sources := collectSources(results, webResults)
	if err := emit(entity.StreamEventSources, entity.StreamSourcesPayload{Sources: sources}); err != nil {
		return err
	}

	messages := buildMessages(req, results, webResults)

	result, err := uc.llm.ChatStream(ctx, messages, func(delta entity.ChatStreamDelta) error {
		if delta.Done || delta.Content == "" {
			return nil
		}
		return emit(entity.StreamEventDelta, entity.StreamDeltaPayload{Delta: delta.Content})
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			ctxzap.Info(ctx, "chat stream stopped by client")
			return emit(entity.StreamEventDone, entity.StreamDonePayload{Status: "stopped"})
		}
		ctxzap.Error(ctx, "chat generation failed", zap.Error(err))
		return uc.emitError(ctx, emit, err)
	}

	queryID := uc.recordTurn(ctx, req.Message, result.Content, sources)

	return emit(entity.StreamEventDone, entity.StreamDonePayload{QueryID: queryID, Status: "done"})
}

// augment decides whether web results join the grounding context. Deep
// mode always searches and enforces the quorum; auto mode searches only
// when local retrieval came back weak.
func (uc *ChatUsecase) augment(
	ctx context.Context, mode entity.ChatMode, query string, results []entity.SearchResult,
) ([]entity.WebResult, string) {
	switch mode {
	case entity.ChatModeFast:
		return nil, ""
	case entity.ChatModeAuto:
		if len(results) > 0 && results[0].Scores.Combined >= autoThreshold {
			return nil, ""
		}
	}

	webResults, err := uc.webSearcher.Search(ctx, query)
	if err != nil {
		ctxzap.Warn(ctx, "web search failed, answering from local context", zap.Error(err))
		if mode == entity.ChatModeDeep {
			return nil, quorumNotice
		}
		return nil, ""
	}

	if mode == entity.ChatModeDeep && distinctHosts(webResults) < webQuorum {
		ctxzap.Info(ctx, "web quorum not met",
			zap.Int("distinct_hosts", distinctHosts(webResults)),
			zap.Int("required", webQuorum),
		)
		return nil, quorumNotice
	}
	return webResults, ""
}

func distinctHosts(results []entity.WebResult) int {
	hosts := make(map[string]bool)
	for _, result := range results {
		parsed, err := url.Parse(result.URL)
		if err != nil || parsed.Host == "" {
			continue
		}
		hosts[parsed.Host] = true
	}
	return len(hosts)
}

func (uc *ChatUsecase) recordTurn(ctx context.Context, query, response string, sources []entity.Source) string {
	record, err := uc.analyticsRepo.Create(ctx, entity.AnalyticsRecord{
		Query:    query,
		Response: response,
		Sources:  sources,
	})
	if err != nil {
		ctxzap.Warn(ctx, "failed to record chat turn", zap.Error(err))
		return ""
	}
	return record.ID
}

func (uc *ChatUsecase) emitError(ctx context.Context, emit EmitFunc, cause error) error {
	code, message := MapProviderError(cause)
	return emit(entity.StreamEventError, entity.StreamErrorPayload{Error: message, Code: code})
}

// MapProviderError translates upstream failures into the stable error
// codes the client understands. Provider billing and quota rejections
// arrive as HTTP 402 and 429.
func MapProviderError(err error) (entity.ErrorCode, string) {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case 402:
			return entity.CodeUpstreamPayment, "o provedor do modelo recusou a cobrança"
		case 429:
			return entity.CodeUpstreamQuota, "a cota do provedor do modelo foi excedida"
		}
	}
	return entity.CodeInternalError, "erro interno ao gerar a resposta"
}
