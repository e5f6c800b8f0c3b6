package fts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/searchit/core"
)

const termsFile = "terms.json"

// Save writes the corpus-wide term statistics to a single summary file and
// each document's posting state to its own file named after the (validated)
// document ID. Files for documents deleted since the last save are removed,
// so the directory always mirrors the in-memory index.
func (idx *Index) Save() error {
	if idx.dir == "" {
		return nil
	}
	if err := os.MkdirAll(idx.dir, 0o755); err != nil {
		return err
	}

	idx.mu.RLock()
	termsData, err := json.Marshal(idx.terms)
	if err != nil {
		idx.mu.RUnlock()
		return err
	}
	docFiles := make(map[string][]byte, len(idx.docs))
	for documentID, doc := range idx.docs {
		data, err := json.Marshal(doc)
		if err != nil {
			idx.mu.RUnlock()
			return err
		}
		docFiles[documentID] = data
	}
	idx.mu.RUnlock()

	if err := os.WriteFile(filepath.Join(idx.dir, termsFile), termsData, 0o644); err != nil {
		return err
	}
	for documentID, data := range docFiles {
		if err := core.ValidateDocumentID(documentID); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(idx.dir, documentID+".json"), data, 0o644); err != nil {
			return err
		}
	}

	// Drop files for documents no longer indexed.
	entries, err := os.ReadDir(idx.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == termsFile || !strings.HasSuffix(name, ".json") {
			continue
		}
		documentID := strings.TrimSuffix(name, ".json")
		if _, ok := docFiles[documentID]; !ok {
			if err := os.Remove(filepath.Join(idx.dir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load replaces the in-memory index with the persisted state. A directory or
// summary file that does not exist loads as an empty index; a file that
// exists but cannot be decoded is reported as ErrCorruptIndex. Load must
// complete before the index serves queries.
func (idx *Index) Load() error {
	if idx.dir == "" {
		return nil
	}

	terms := make(map[string]*termStats)
	data, err := os.ReadFile(filepath.Join(idx.dir, termsFile))
	switch {
	case os.IsNotExist(err):
		idx.logger.Info("no full-text index found, starting empty", "dir", idx.dir)
		idx.mu.Lock()
		idx.docs = make(map[string]*documentStats)
		idx.order = nil
		idx.terms = terms
		idx.mu.Unlock()
		return nil
	case err != nil:
		return err
	}
	if err := json.Unmarshal(data, &terms); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptIndex, termsFile, err)
	}

	entries, err := os.ReadDir(idx.dir)
	if err != nil {
		return err
	}

	docs := make(map[string]*documentStats)
	var order []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == termsFile || !strings.HasSuffix(name, ".json") {
			continue
		}
		documentID := strings.TrimSuffix(name, ".json")
		if err := core.ValidateDocumentID(documentID); err != nil {
			return fmt.Errorf("%w: unexpected file %q", ErrCorruptIndex, name)
		}
		docData, err := os.ReadFile(filepath.Join(idx.dir, name))
		if err != nil {
			return err
		}
		doc := &documentStats{}
		if err := json.Unmarshal(docData, doc); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorruptIndex, name, err)
		}
		if doc.TermFrequency == nil {
			doc.TermFrequency = make(map[string]int)
		}
		docs[documentID] = doc
		order = append(order, documentID)
	}
	// ReadDir order is already sorted; keep it explicit so reload order is
	// reproducible regardless of platform.
	sort.Strings(order)

	idx.mu.Lock()
	idx.docs = docs
	idx.order = order
	idx.terms = terms
	idx.mu.Unlock()
	return nil
}
