package core

// EmbeddedChunk is the atomic unit of indexing: a slice of a document's text
// together with its 0-based chunk index and, once the embedding provider has
// run, a fixed-length vector. A document is one or more chunks.
type EmbeddedChunk struct {
	ChunkID   int
	Text      string
	Embedding []float32
}

// SourceDocument is the stored form of an ingested document: its text split
// into chunks, an optional title, and free-form metadata that the engine
// passes through verbatim.
type SourceDocument struct {
	ChunkedContent []string       `json:"chunkedContent"`
	Title          string         `json:"title,omitempty"`
	Metadata       map[string]any `json:"metadata"`
}

// KeywordMatch is a single result from the lexical (BM25) index.
type KeywordMatch struct {
	DocumentID string
	Score      float64
}

// VectorMatch is a single result from the vector index. ChunkID identifies
// the chunk whose embedding produced the similarity score.
type VectorMatch struct {
	DocumentID string
	ChunkID    int
	Score      float64
}

// FusedMatch is a single result after reciprocal rank fusion. HasChunk is
// true when the match carries chunk information from the vector side;
// keyword-only matches have no chunk.
type FusedMatch struct {
	DocumentID string
	ChunkID    int
	HasChunk   bool
	Score      float64
}

// SearchResult is a fused match hydrated with its source document.
// Highlights holds the text of the chunk the vector index matched, when the
// match carries one.
type SearchResult struct {
	DocumentID string
	Content    string
	Highlights []string
	Title      string
	Metadata   map[string]any
	Score      float64
}
