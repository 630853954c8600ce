package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/entity"
)

// MockConnector produces deterministic unit vectors so similarity math
// stays meaningful in tests: identical inputs always embed identically.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding inputs", zap.Int("inputs", len(inputs)))

	vectors := make([][]float32, len(inputs))
	for i, input := range inputs {
		vectors[i] = deterministicVector(input)
	}
	return vectors, nil
}

func (m *MockConnector) EmbedOne(ctx context.Context, input string) ([]float32, error) {
	vectors, err := m.Embed(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func deterministicVector(input string) []float32 {
	vec := make([]float32, entity.EmbeddingDim)
	seed := fnv.New64a()
	seed.Write([]byte(input))
	state := seed.Sum64()

	var norm float64
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		v := float32(int64(state>>32)) / float32(math.MaxInt32)
		vec[i] = v
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
