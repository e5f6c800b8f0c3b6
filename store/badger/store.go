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

// Package badger implements the document store on top of BadgerDB, for
// deployments that prefer a single embedded database over a directory
// of JSON files.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/searchit/core"
	"github.com/poiesic/searchit/store"
)

// Key prefix for source document records.
const sourceDocumentPrefix = "src"

func makeSourceDocumentKey(documentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", sourceDocumentPrefix, documentID))
}

// Store implements store.Store on a BadgerDB backend. Documents are
// stored as JSON values under src-prefixed keys.
type Store struct {
	backend *Backend
}

var _ store.Store = (*Store)(nil)

// NewStore creates a document store on the given backend.
func NewStore(backend *Backend) (*Store, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	return &Store{backend: backend}, nil
}

// Save persists the record, replacing any prior record for the same ID.
func (s *Store) Save(ctx context.Context, documentID string, doc *core.SourceDocument) error {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSourceDocumentKey(documentID), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Load returns the stored record, or core.ErrNotFound.
func (s *Store) Load(ctx context.Context, documentID string) (*core.SourceDocument, error) {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return nil, err
	}
	doc := &core.SourceDocument{}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceDocumentKey(documentID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, documentID)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, doc)
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadMany returns the records for the deduplicated set of IDs.
func (s *Store) LoadMany(ctx context.Context, documentIDs []string) (map[string]*core.SourceDocument, error) {
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
func (s *Store) Delete(ctx context.Context, documentID string) error {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeSourceDocumentKey(documentID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// List returns the IDs of every stored document, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sourceDocumentPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := string(iter.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, sourceDocumentPrefix+":"))
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
