// Package store provides durable storage for source documents. Two backends
// share one interface: a directory of per-document JSON files (the default,
// reproducible layout) and a BadgerDB key-value store in the badger
// subpackage for deployments preferring a single on-disk database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/searchit/core"
)

// FileStore stores one JSON file per document, named after its validated ID.
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(documentID string) (string, error) {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, documentID+".json"), nil
}

// Save persists the record, replacing any prior record for the same ID.
func (s *FileStore) Save(ctx context.Context, documentID string, doc *core.SourceDocument) error {
	path, err := s.path(documentID)
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load returns the stored record, or core.ErrNotFound.
func (s *FileStore) Load(ctx context.Context, documentID string) (*core.SourceDocument, error) {
	path, err := s.path(documentID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, documentID)
	}
	if err != nil {
		return nil, err
	}
	doc := &core.SourceDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadMany returns the records for the deduplicated set of IDs.
func (s *FileStore) LoadMany(ctx context.Context, documentIDs []string) (map[string]*core.SourceDocument, error) {
	unique := make(map[string]bool, len(documentIDs))
	docs := make(map[string]*core.SourceDocument, len(documentIDs))
	for _, documentID := range documentIDs {
		if unique[documentID] {
			continue
		}
		unique[documentID] = true

		doc, err := s.Load(ctx, documentID)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				continue
			}
			return nil, err
		}
		docs[documentID] = doc
	}
	return docs, nil
}

// Delete removes the record; absent records succeed silently.
func (s *FileStore) Delete(ctx context.Context, documentID string) error {
	path, err := s.path(documentID)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the IDs of every stored document, sorted.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		documentID := strings.TrimSuffix(name, ".json")
		if core.ValidateDocumentID(documentID) != nil {
			continue
		}
		ids = append(ids, documentID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}
