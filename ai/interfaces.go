package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedChunks generates embeddings for a document's chunks in a batch.
	// The returned slice contains one embedding per chunk, in input order.
	EmbedChunks(ctx context.Context, chunks []string) ([][]float32, error)

	// EmbedQuery generates the embedding for a search query.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// TooLarge reports whether text exceeds the model's input budget.
	// Callers check before embedding; EmbedChunks does not enforce it.
	TooLarge(text string) bool
}

// Provider creates and manages an Embedder, ensuring configuration and
// resources are shared appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
