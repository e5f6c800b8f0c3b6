package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/searchit/core"
)

// Save writes one file per document, named after its validated ID, holding
// the document's chunk embeddings. Files for deleted documents are removed.
func (idx *Index) Save() error {
	if idx.dir == "" {
		return nil
	}
	if err := os.MkdirAll(idx.dir, 0o755); err != nil {
		return err
	}

	idx.mu.RLock()
	docFiles := make(map[string][]byte, len(idx.docs))
	for documentID, doc := range idx.docs {
		records := make([]chunkRecord, 0, len(doc))
		for chunkID, embedding := range doc {
			records = append(records, chunkRecord{ChunkID: chunkID, Embedding: embedding})
		}
		sort.Slice(records, func(i, j int) bool { return records[i].ChunkID < records[j].ChunkID })
		data, err := json.Marshal(records)
		if err != nil {
			idx.mu.RUnlock()
			return err
		}
		docFiles[documentID] = data
	}
	idx.mu.RUnlock()

	for documentID, data := range docFiles {
		if err := core.ValidateDocumentID(documentID); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(idx.dir, documentID+".json"), data, 0o644); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(idx.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
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

// Load replaces the in-memory index with the persisted state. A missing
// directory loads as an empty index; an undecodable file is ErrCorruptIndex.
func (idx *Index) Load() error {
	if idx.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(idx.dir)
	if os.IsNotExist(err) {
		idx.logger.Info("no vector index found, starting empty", "dir", idx.dir)
		idx.mu.Lock()
		idx.docs = make(map[string]map[int][]float32)
		idx.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}

	docs := make(map[string]map[int][]float32)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		documentID := strings.TrimSuffix(name, ".json")
		if err := core.ValidateDocumentID(documentID); err != nil {
			return fmt.Errorf("%w: unexpected file %q", ErrCorruptIndex, name)
		}
		data, err := os.ReadFile(filepath.Join(idx.dir, name))
		if err != nil {
			return err
		}
		var records []chunkRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorruptIndex, name, err)
		}
		doc := make(map[int][]float32, len(records))
		for _, record := range records {
			doc[record.ChunkID] = record.Embedding
		}
		docs[documentID] = doc
	}

	idx.mu.Lock()
	idx.docs = docs
	idx.mu.Unlock()
	return nil
}
