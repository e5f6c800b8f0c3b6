// Package fts provides the lexical half of hybrid retrieval: an in-memory
// BM25 full-text index with JSON persistence.
//
// Inverse document frequency is a derived, batch-computed statistic: it is
// only valid after RecomputeStatistics has run, and it goes stale after any
// add or delete. Callers are expected to batch mutations and recompute once
// per batch, trading always-fresh scores for ingestion throughput.
package fts

import (
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/searchit/core"
)

// BM25 parameters
const (
	k1 = 1.5
	b  = 0.75
)

// documentStats holds the per-document posting state.
type documentStats struct {
	TermFrequency map[string]int `json:"termFrequency"`
	WordCount     int            `json:"wordCount"`
}

// termStats holds the corpus-wide state for one distinct term.
type termStats struct {
	DocumentFrequency        int     `json:"documentFrequency"`
	InverseDocumentFrequency float64 `json:"inverseDocumentFrequency"`
}

// Index is a BM25 full-text index. The zero value is not usable; construct
// with NewIndex. All methods are safe for concurrent use; mutations take the
// write lock so searches always observe whole documents, never a half-written
// term map.
type Index struct {
	mu     sync.RWMutex
	docs   map[string]*documentStats
	order  []string // insertion order, for deterministic tie-breaking
	terms  map[string]*termStats
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
// an ephemeral index whose Save and Load are no-ops, which is convenient in
// tests.
func NewIndex(dir string, opts ...Option) *Index {
	idx := &Index{
		docs:   make(map[string]*documentStats),
		terms:  make(map[string]*termStats),
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// AddDocument tokenizes text, computes its term frequencies and word count,
// and overwrites any prior posting entry for documentID.
//
// Document-frequency counters are incremented for every distinct term seen.
// They are NOT reconciled against a previous version of the same document:
// re-adding an existing ID without calling DeleteDocument first corrupts the
// corpus counts. Delete-before-add on update is a caller precondition, which
// the engine upholds.
func (idx *Index) AddDocument(documentID, text string) error {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return err
	}

	words := normalize(text)
	tf := make(map[string]int, len(words))
	for _, word := range words {
		tf[word]++
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.docs[documentID]; !exists {
		idx.order = append(idx.order, documentID)
	}
	idx.docs[documentID] = &documentStats{
		TermFrequency: tf,
		WordCount:     len(words),
	}

	for term := range tf {
		stats, ok := idx.terms[term]
		if !ok {
			stats = &termStats{}
			idx.terms[term] = stats
		}
		stats.DocumentFrequency++
	}
	return nil
}

// DeleteDocument removes a document and decrements the document frequency of
// every term it contributed. Terms whose frequency drops to zero are removed
// entirely. Deleting an absent document is a no-op.
func (idx *Index) DeleteDocument(documentID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	doc, ok := idx.docs[documentID]
	if !ok {
		return
	}

	for term := range doc.TermFrequency {
		stats, ok := idx.terms[term]
		if !ok {
			continue
		}
		stats.DocumentFrequency--
		if stats.DocumentFrequency <= 0 {
			delete(idx.terms, term)
		}
	}

	delete(idx.docs, documentID)
	for i, id := range idx.order {
		if id == documentID {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
}

// Has reports whether a document is indexed. The lexical index is the source
// of truth for document existence across the engine.
func (idx *Index) Has(documentID string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.docs[documentID]
	return ok
}

// Count returns the number of indexed documents.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// DocumentFrequency returns the number of documents containing term (after
// normalization by the caller: pass a single already-lowercased word).
func (idx *Index) DocumentFrequency(term string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if stats, ok := idx.terms[term]; ok {
		return stats.DocumentFrequency
	}
	return 0
}

// RecomputeStatistics recalculates the inverse document frequency of every
// term as ln((N - df + 0.5) / (df + 0.5) + 1). The +1 inside the logarithm
// keeps IDF non-negative even for terms appearing in every document, so
// ubiquitous terms never penalize a score. Must run after any batch of
// mutations and before Search.
func (idx *Index) RecomputeStatistics() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n := float64(len(idx.docs))
	for _, stats := range idx.terms {
		df := float64(stats.DocumentFrequency)
		stats.InverseDocumentFrequency = math.Log((n-df+0.5)/(df+0.5) + 1)
	}
}

// Search scores every indexed document against the query with BM25 and
// returns up to maxResults matches, best first. Query terms absent from the
// corpus are ignored. An empty corpus yields an empty result set. Ties keep
// insertion order, so results are deterministic within a process.
func (idx *Index) Search(query string, maxResults int) []core.KeywordMatch {
	terms := normalize(query)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.docs) == 0 {
		return nil
	}

	totalWords := 0
	for _, doc := range idx.docs {
		totalWords += doc.WordCount
	}
	avgLength := float64(totalWords) / float64(len(idx.docs))

	results := make([]core.KeywordMatch, 0, len(idx.order))
	for _, documentID := range idx.order {
		results = append(results, core.KeywordMatch{
			DocumentID: documentID,
			Score:      idx.score(documentID, terms, avgLength),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if maxResults >= 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// score computes the BM25 score of one document against the normalized query.
// Caller holds at least the read lock.
func (idx *Index) score(documentID string, terms []string, avgLength float64) float64 {
	doc := idx.docs[documentID]
	var score float64
	for _, term := range terms {
		freq, ok := doc.TermFrequency[term]
		if !ok {
			continue
		}
		stats, ok := idx.terms[term]
		if !ok {
			continue
		}
		tf := float64(freq)
		numerator := stats.InverseDocumentFrequency * tf * (k1 + 1)
		denominator := tf + k1*(1-b+b*float64(doc.WordCount)/avgLength)
		score += numerator / denominator
	}
	return score
}
