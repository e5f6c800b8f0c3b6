package store

import (
	"context"

	"github.com/poiesic/searchit/core"
)

// Store persists the chunked text, title and metadata of ingested documents,
// independent of how they are indexed for search. Implementations must be
// safe for concurrent use.
type Store interface {
	// Save persists the record, replacing any prior record for the same ID.
	Save(ctx context.Context, documentID string, doc *core.SourceDocument) error

	// Load returns the stored record, or core.ErrNotFound.
	Load(ctx context.Context, documentID string) (*core.SourceDocument, error)

	// LoadMany returns the records for the given IDs, deduplicating the input
	// first so a document scored by both indexes is read once. Missing
	// documents are simply absent from the result, not an error.
	LoadMany(ctx context.Context, documentIDs []string) (map[string]*core.SourceDocument, error)

	// Delete removes the record. Deleting an absent record succeeds silently
	// so partial ingestion failures never halt a bulk delete.
	Delete(ctx context.Context, documentID string) error

	// List returns the IDs of every stored document.
	List(ctx context.Context) ([]string, error)

	// Close releases resources held by the backend.
	Close() error
}
