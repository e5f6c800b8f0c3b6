package mock

import (
	"context"
	"hash/fnv"
)

// defaultDimensions is the width of generated mock vectors.
const defaultDimensions = 384

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedChunksFunc is called by EmbedChunks if set.
	// If nil, uses default deterministic behavior.
	EmbedChunksFunc func(ctx context.Context, chunks []string) ([][]float32, error)

	// EmbedQueryFunc is called by EmbedQuery if set.
	// If nil, uses default deterministic behavior.
	EmbedQueryFunc func(ctx context.Context, query string) ([]float32, error)

	// TooLargeFunc is called by TooLarge if set.
	// If nil, no text is considered too large.
	TooLargeFunc func(text string) bool

	callCount int
}

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedChunks generates deterministic embeddings based on each chunk's hash.
func (m *MockEmbedder) EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedChunksFunc != nil {
		return m.EmbedChunksFunc(ctx, chunks)
	}

	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		vectors[i] = generateDeterministicVector(chunk, defaultDimensions)
	}
	return vectors, nil
}

// EmbedQuery generates a deterministic embedding based on the query's hash.
func (m *MockEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	m.callCount++

	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, query)
	}

	return generateDeterministicVector(query, defaultDimensions), nil
}

// TooLarge reports false unless TooLargeFunc is set.
func (m *MockEmbedder) TooLarge(text string) bool {
	if m.TooLargeFunc != nil {
		return m.TooLargeFunc(text)
	}
	return false
}

// CallCount returns the number of embedding calls made.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedChunksFunc = nil
	m.EmbedQueryFunc = nil
	m.TooLargeFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector from
// text. It uses FNV hash to ensure the same text always produces the same
// vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector
}
