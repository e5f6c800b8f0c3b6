package openai

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/poiesic/searchit/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder      embeddings.Embedder
	maxInputRunes int
	logger        *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder:      embedder,
		maxInputRunes: config.MaxInputRunes,
		logger:        slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedChunks generates vector embeddings for a document's chunks in a batch.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	e.logger.Debug("generating embeddings for chunks", "count", len(chunks))

	vectors, err := e.embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(chunks), "err", err)
		return nil, err
	}

	return vectors, nil
}

// EmbedQuery generates the embedding for a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	e.logger.Debug("generating embedding for query", "length", len(query))

	vector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		e.logger.Error("failed to generate query embedding", "err", err)
		return nil, err
	}

	return vector, nil
}

// TooLarge reports whether text exceeds the configured input budget.
func (e *Embedder) TooLarge(text string) bool {
	return utf8.RuneCountInString(text) > e.maxInputRunes
}
