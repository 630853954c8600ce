package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
	"github.com/clarainova/clara-backend/internal/pkg/synonyms"
	"github.com/clarainova/clara-backend/internal/pkg/validator"
	"github.com/clarainova/clara-backend/internal/repository"
)

const (
	// Score blend weights. Lexical overlap is cheap and robust; vector
	// similarity carries more signal when the embedding succeeds.
	lexicalWeight = 0.4
	vectorWeight  = 0.6

	defaultLimit   = 8
	candidateLimit = 50
)

// SearchUsecase implements hybrid retrieval over the chunk store
type SearchUsecase struct {
	chunkRepo repository.ChunkRepository
	embedder  Embedder
	expander  *synonyms.Expander
	validator *validator.Validator
	logger    *zap.Logger
}

func NewUsecase(
	chunkRepo repository.ChunkRepository,
	embedder Embedder,
	expander *synonyms.Expander,
	validator *validator.Validator,
	logger *zap.Logger,
) *SearchUsecase {
	return &SearchUsecase{
		chunkRepo: chunkRepo,
		embedder:  embedder,
		expander:  expander,
		validator: validator,
		logger:    logger,
	}
}

// Search runs both retrieval paths and blends their scores. Embedding
// failure degrades to lexical-only results with vector score zero; it
// never fails the request.
func (uc *SearchUsecase) Search(ctx context.Context, req *entity.SearchRequest) (*entity.SearchResponse, error) {
	if err := uc.validator.ValidateSearch(req); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	terms := uc.expander.Expand(req.Query)

	lexicalHits, err := uc.chunkRepo.SearchByTerms(ctx, terms, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	// The expanded query text is embedded, not the raw input, so both
	// retrieval paths see the same synonym closure.
	var vectorHits []repository.SearchHit
	vector, err := uc.embedder.EmbedOne(ctx, strings.Join(terms, " "))
	if err != nil {
		ctxzap.Warn(ctx, "embedding unavailable, degrading to lexical-only search", zap.Error(err))
	} else {
		vectorHits, err = uc.chunkRepo.SearchByVector(ctx, vector, candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("vector search: %w", err)
		}
	}

	results := blendHits(terms, lexicalHits, vectorHits)
	if len(results) > limit {
		results = results[:limit]
	}

	ctxzap.Info(ctx, "search finished",
		zap.Int("expanded_terms", len(terms)),
		zap.Int("lexical_hits", len(lexicalHits)),
		zap.Int("vector_hits", len(vectorHits)),
		zap.Int("results", len(results)),
	)

	return &entity.SearchResponse{
		Query:         req.Query,
		ExpandedTerms: terms,
		Results:       results,
	}, nil
}

// blendHits merges both candidate sets by chunk ID and computes the
// combined score from its parts, so every result's combined value can be
// recomputed from the exposed lexical and vector components.
func blendHits(terms []string, lexicalHits, vectorHits []repository.SearchHit) []entity.SearchResult {
	merged := make(map[string]*entity.SearchResult)

	for _, hit := range lexicalHits {
		merged[hit.Chunk.ID] = &entity.SearchResult{
			ChunkID:       hit.Chunk.ID,
			DocumentID:    hit.Chunk.DocumentID,
			DocumentTitle: hit.DocumentTitle,
			Content:       hit.Chunk.Content,
			DocumentDate:  hit.DocumentDate,
			Scores: entity.ChunkScores{
				Lexical: lexicalScore(terms, hit.Chunk.Content),
			},
		}
	}

	for _, hit := range vectorHits {
		result, ok := merged[hit.Chunk.ID]
		if !ok {
			result = &entity.SearchResult{
				ChunkID:       hit.Chunk.ID,
				DocumentID:    hit.Chunk.DocumentID,
				DocumentTitle: hit.DocumentTitle,
				Content:       hit.Chunk.Content,
				DocumentDate:  hit.DocumentDate,
				Scores: entity.ChunkScores{
					Lexical: lexicalScore(terms, hit.Chunk.Content),
				},
			}
			merged[hit.Chunk.ID] = result
		}
		result.Scores.Vector = clampScore(hit.Similarity)
	}

	results := make([]entity.SearchResult, 0, len(merged))
	for _, result := range merged {
		result.Scores.Combined = lexicalWeight*result.Scores.Lexical + vectorWeight*result.Scores.Vector
		results = append(results, *result)
	}

	// Ties go to the newer document, then to a stable key.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Scores.Combined != results[j].Scores.Combined {
			return results[i].Scores.Combined > results[j].Scores.Combined
		}
		if !results[i].DocumentDate.Equal(results[j].DocumentDate) {
			return results[i].DocumentDate.After(results[j].DocumentDate)
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	return results
}

// lexicalScore is the fraction of distinct expanded terms present in the
// chunk content, case- and accent-insensitive.
func lexicalScore(terms []string, content string) float64 {
	if len(terms) == 0 {
		return 0
	}
	folded := strings.Join(synonyms.Tokenize(content), " ")

	matched := 0
	for _, term := range terms {
		if strings.Contains(folded, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

func clampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
