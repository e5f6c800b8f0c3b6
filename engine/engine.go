// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package engine orchestrates the keyword index, the vector index and the
// document store behind one retrieval API. Mutations go through the engine so
// the three stay consistent; searches fan out to both indexes and fuse the
// ranked lists.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/searchit/ai"
	"github.com/poiesic/searchit/core"
	"github.com/poiesic/searchit/fts"
	"github.com/poiesic/searchit/fusion"
	"github.com/poiesic/searchit/store"
	"github.com/poiesic/searchit/vector"
)

// Document is an embedded document ready for indexing. Each chunk carries its
// text and its embedding; the keyword index sees the title and all chunk
// texts, the vector index sees the embeddings, and the store keeps the rest.
type Document struct {
	ID       string
	Title    string
	Metadata map[string]any
	Chunks   []core.EmbeddedChunk
}

// Engine ties the indexes and the store together. Mutations are serialized by
// an engine-level mutex; searches only take the indexes' read locks and can
// run concurrently with each other.
type Engine struct {
	mu       sync.Mutex
	fts      *fts.Index
	vectors  *vector.Index
	sources  store.Store
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine over its four dependencies. All are required.
func NewEngine(ftsIndex *fts.Index, vectorIndex *vector.Index, sources store.Store, embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if ftsIndex == nil {
		return nil, ErrNoKeywordIndex
	}
	if vectorIndex == nil {
		return nil, ErrNoVectorIndex
	}
	if sources == nil {
		return nil, ErrNoStore
	}
	if embedder == nil {
		return nil, ErrNoEmbedder
	}

	e := &Engine{
		fts:      ftsIndex,
		vectors:  vectorIndex,
		sources:  sources,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Load restores both indexes from disk. Call once before serving.
func (e *Engine) Load() error {
	if err := e.fts.Load(); err != nil {
		return fmt.Errorf("loading keyword index: %w", err)
	}
	if err := e.vectors.Load(); err != nil {
		return fmt.Errorf("loading vector index: %w", err)
	}
	return nil
}

// keywordText is what the keyword index sees for a document.
func keywordText(doc Document) string {
	texts := make([]string, 0, len(doc.Chunks)+1)
	if doc.Title != "" {
		texts = append(texts, doc.Title)
	}
	for _, chunk := range doc.Chunks {
		texts = append(texts, chunk.Text)
	}
	return strings.Join(texts, " ")
}

// addLocked indexes one document in all three places. Re-adding an existing
// ID deletes it first, which keeps the keyword index's document frequencies
// exact. Caller holds e.mu.
func (e *Engine) addLocked(ctx context.Context, doc Document) error {
	if err := core.ValidateDocumentID(doc.ID); err != nil {
		return err
	}
	if len(doc.Chunks) == 0 {
		return fmt.Errorf("%w: document %s has no chunks", core.ErrEmptyContent, doc.ID)
	}

	if e.fts.Has(doc.ID) {
		e.logger.Debug("replacing existing document", "documentID", doc.ID)
		e.fts.DeleteDocument(doc.ID)
		e.vectors.DeleteDocument(doc.ID)
	}

	if err := e.fts.AddDocument(doc.ID, keywordText(doc)); err != nil {
		return fmt.Errorf("indexing keywords for %s: %w", doc.ID, err)
	}
	if err := e.vectors.AddChunks(doc.ID, doc.Chunks); err != nil {
		return fmt.Errorf("indexing vectors for %s: %w", doc.ID, err)
	}

	chunkedContent := make([]string, len(doc.Chunks))
	for i, chunk := range doc.Chunks {
		chunkedContent[i] = chunk.Text
	}
	source := &core.SourceDocument{
		ChunkedContent: chunkedContent,
		Title:          doc.Title,
		Metadata:       doc.Metadata,
	}
	if err := e.sources.Save(ctx, doc.ID, source); err != nil {
		return fmt.Errorf("storing source for %s: %w", doc.ID, err)
	}
	return nil
}

// AddDocuments indexes a batch of documents, then recomputes the keyword
// statistics and persists both indexes once. A failed document aborts the
// batch; documents added before it stay indexed and are persisted.
func (e *Engine) AddDocuments(ctx context.Context, docs ...Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var addErr error
	for _, doc := range docs {
		if err := e.addLocked(ctx, doc); err != nil {
			e.logger.Error("failed to add document", "documentID", doc.ID, "error", err)
			addErr = err
			break
		}
	}

	e.fts.RecomputeStatistics()
	if err := e.saveLocked(); err != nil {
		return err
	}
	return addErr
}

// DeleteDocuments removes documents from both indexes and the store, then
// recomputes statistics and persists once. Unknown IDs are skipped.
func (e *Engine) DeleteDocuments(ctx context.Context, documentIDs ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, documentID := range documentIDs {
		if !e.fts.Has(documentID) {
			e.logger.Debug("skipping delete of unknown document", "documentID", documentID)
			continue
		}
		id := documentID
		e.fts.DeleteDocument(id)
		e.vectors.DeleteDocument(id)
		g.Go(func() error {
			return e.sources.Delete(ctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("deleting stored sources: %w", err)
	}

	e.fts.RecomputeStatistics()
	return e.saveLocked()
}

// Search runs the hybrid query: the vector and keyword searches fan out
// concurrently, their ranked lists are fused, and the fused matches are
// hydrated from the document store. Queries that match nothing return an
// empty slice.
func (e *Engine) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	var (
		keywordMatches []core.KeywordMatch
		vectorMatches  []core.VectorMatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		embedding, err := e.embedder.EmbedQuery(gctx, query)
		if err != nil {
			return fmt.Errorf("embedding query: %w", err)
		}
		vectorMatches, err = e.vectors.Search(embedding, maxResults)
		if err != nil {
			return fmt.Errorf("vector search: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		keywordMatches = e.fts.Search(query, maxResults)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused, err := fusion.Fuse(keywordMatches, vectorMatches, maxResults)
	if err != nil {
		if errors.Is(err, fusion.ErrNoResults) {
			return []core.SearchResult{}, nil
		}
		return nil, err
	}

	return e.hydrate(ctx, fused)
}

// hydrate resolves fused matches into full results using the stored sources.
// A match whose source record has gone missing is dropped with a warning.
func (e *Engine) hydrate(ctx context.Context, fused []core.FusedMatch) ([]core.SearchResult, error) {
	ids := make([]string, len(fused))
	for i, match := range fused {
		ids[i] = match.DocumentID
	}
	sources, err := e.sources.LoadMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading sources: %w", err)
	}

	results := make([]core.SearchResult, 0, len(fused))
	for _, match := range fused {
		source, ok := sources[match.DocumentID]
		if !ok {
			e.logger.Warn("search hit has no stored source", "documentID", match.DocumentID)
			continue
		}
		result := core.SearchResult{
			DocumentID: match.DocumentID,
			Content:    strings.Join(source.ChunkedContent, " "),
			Title:      source.Title,
			Metadata:   source.Metadata,
			Score:      match.Score,
		}
		if match.HasChunk && match.ChunkID >= 0 && match.ChunkID < len(source.ChunkedContent) {
			result.Highlights = []string{source.ChunkedContent[match.ChunkID]}
		}
		results = append(results, result)
	}
	return results, nil
}

// GetDocument returns the stored source record for a document.
func (e *Engine) GetDocument(ctx context.Context, documentID string) (*core.SourceDocument, error) {
	return e.sources.Load(ctx, documentID)
}

// DocumentExists reports whether a document is currently indexed.
func (e *Engine) DocumentExists(documentID string) bool {
	return e.fts.Has(documentID)
}

// Reindex re-embeds every stored document's chunks and rebuilds the vector
// index from them, for embedding model migrations. The keyword index is
// untouched.
func (e *Engine) Reindex(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids, err := e.sources.List(ctx)
	if err != nil {
		return fmt.Errorf("listing stored documents: %w", err)
	}

	for _, documentID := range ids {
		source, err := e.sources.Load(ctx, documentID)
		if err != nil {
			return fmt.Errorf("loading source for %s: %w", documentID, err)
		}
		embeddings, err := e.embedder.EmbedChunks(ctx, source.ChunkedContent)
		if err != nil {
			return fmt.Errorf("embedding chunks for %s: %w", documentID, err)
		}
		if len(embeddings) != len(source.ChunkedContent) {
			return fmt.Errorf("embedder returned %d embeddings for %d chunks of %s",
				len(embeddings), len(source.ChunkedContent), documentID)
		}

		chunks := make([]core.EmbeddedChunk, len(embeddings))
		for i, embedding := range embeddings {
			chunks[i] = core.EmbeddedChunk{
				ChunkID:   i,
				Text:      source.ChunkedContent[i],
				Embedding: embedding,
			}
		}
		e.vectors.DeleteDocument(documentID)
		if err := e.vectors.AddChunks(documentID, chunks); err != nil {
			return fmt.Errorf("reindexing vectors for %s: %w", documentID, err)
		}
		e.logger.Info("reindexed document", "documentID", documentID, "chunks", len(chunks))
	}

	if err := e.vectors.Save(); err != nil {
		return fmt.Errorf("persisting vector index: %w", err)
	}
	return nil
}

func (e *Engine) saveLocked() error {
	if err := e.fts.Save(); err != nil {
		return fmt.Errorf("persisting keyword index: %w", err)
	}
	if err := e.vectors.Save(); err != nil {
		return fmt.Errorf("persisting vector index: %w", err)
	}
	return nil
}

// Save persists both indexes.
func (e *Engine) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked()
}
