// Package vector provides the semantic half of hybrid retrieval: an
// in-memory chunk embedding index answering nearest-neighbor queries by
// exact cosine similarity.
//
// The scan is deliberately brute-force. Correctness and simplicity win over
// scaling past a single-node in-memory corpus; there is no approximate
// nearest-neighbor structure, and that is a design boundary rather than an
// oversight. All vectors are expected to share one dimensionality; the index
// does not enforce this at insert time, it surfaces the mismatch at search.
package vector

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/poiesic/searchit/core"
)

// chunkRecord is the persisted form of one chunk's embedding.
type chunkRecord struct {
	ChunkID   int       `json:"chunkID"`
	Embedding []float32 `json:"embedding"`
}

// Index stores one embedding per (documentID, chunkID). All methods are safe
// for concurrent use.
type Index struct {
	mu     sync.RWMutex
	docs   map[string]map[int][]float32
	dir    string
	logger *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
	}
}

// NewIndex creates an empty index persisting under dir. An empty dir creates
// an ephemeral index whose Save and Load are no-ops.
func NewIndex(dir string, opts ...Option) *Index {
	idx := &Index{
		docs:   make(map[string]map[int][]float32),
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// AddChunks inserts or replaces the embedding of every (documentID, chunkID)
// record in the batch. Chunks from a previous version of the document that
// are not in the batch remain; the engine deletes before re-adding on upsert.
func (idx *Index) AddChunks(documentID string, chunks []core.EmbeddedChunk) error {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	doc, ok := idx.docs[documentID]
	if !ok {
		doc = make(map[int][]float32, len(chunks))
		idx.docs[documentID] = doc
	}
	for _, chunk := range chunks {
		doc[chunk.ChunkID] = chunk.Embedding
	}
	return nil
}

// DeleteDocument removes every chunk belonging to the document. Deleting an
// absent document is a no-op.
func (idx *Index) DeleteDocument(documentID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.docs, documentID)
}

// ChunkCount returns the total number of stored chunks.
func (idx *Index) ChunkCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	count := 0
	for _, doc := range idx.docs {
		count += len(doc)
	}
	return count
}

// Search compares the query embedding against every stored chunk and returns
// up to maxResults matches sorted by descending cosine similarity. A zero
// query vector, a zero stored vector, or a dimensionality mismatch fails the
// whole search with an explicit error instead of leaking NaN into the
// ranking. Ties break by (documentID, chunkID) so results are deterministic.
func (idx *Index) Search(query []float32, maxResults int) ([]core.VectorMatch, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]core.VectorMatch, 0, len(idx.docs))
	for documentID, doc := range idx.docs {
		for chunkID, embedding := range doc {
			score, err := CosineSimilarity(query, embedding)
			if err != nil {
				return nil, err
			}
			results = append(results, core.VectorMatch{
				DocumentID: documentID,
				ChunkID:    chunkID,
				Score:      score,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].DocumentID != results[j].DocumentID {
			return results[i].DocumentID < results[j].DocumentID
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if maxResults >= 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}
