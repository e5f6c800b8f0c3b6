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

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/poiesic/searchit/core"
)

const queueFile = "queue.json"

// FileQueue stores pending documents under a directory: queue.json holds the
// ordered records, <id>.txt the text and <id>.json the metadata of each item.
type FileQueue struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
}

var _ Queue = (*FileQueue)(nil)

// FileOption configures a FileQueue.
type FileOption func(*FileQueue)

// WithFileLogger sets the logger for the queue.
func WithFileLogger(logger *slog.Logger) FileOption {
	return func(q *FileQueue) {
		q.logger = logger
	}
}

// NewFileQueue creates a file-backed queue rooted at dir, creating the
// directory if needed.
func NewFileQueue(dir string, opts ...FileOption) (*FileQueue, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	q := &FileQueue{
		dir:    dir,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

func (q *FileQueue) validateID(documentID string) error {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return err
	}
	// "queue" would collide with the record file itself.
	if documentID == "queue" {
		return fmt.Errorf("%w: queue is reserved", core.ErrInvalidDocumentID)
	}
	return nil
}

func (q *FileQueue) readItems() ([]Item, error) {
	data, err := os.ReadFile(filepath.Join(q.dir, queueFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("reading queue record: %w", err)
	}
	return items, nil
}

func (q *FileQueue) writeItems(items []Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(q.dir, queueFile), data, 0o644)
}

// Enqueue writes the item's blobs first, then appends the queue record, so a
// crash between the two leaves stray blobs rather than a dangling record.
func (q *FileQueue) Enqueue(ctx context.Context, documentID, text string, metadata map[string]any) error {
	if err := q.validateID(documentID); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if err := os.WriteFile(filepath.Join(q.dir, documentID+".txt"), []byte(text), 0o644); err != nil {
		return err
	}
	metaData, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(q.dir, documentID+".json"), metaData, 0o644); err != nil {
		return err
	}

	items, err := q.readItems()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, item := range items {
		if item.DocumentID != documentID {
			kept = append(kept, item)
		}
	}
	kept = append(kept, Item{DocumentID: documentID, CreatedAt: time.Now().UTC()})
	return q.writeItems(kept)
}

// DequeueNext removes and returns the oldest pending document, or (nil, nil)
// when the queue is empty.
func (q *FileQueue) DequeueNext(ctx context.Context) (*PendingDocument, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.readItems()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	oldest := 0
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.Before(items[oldest].CreatedAt) {
			oldest = i
		}
	}
	item := items[oldest]

	text, err := os.ReadFile(filepath.Join(q.dir, item.DocumentID+".txt"))
	if err != nil {
		return nil, fmt.Errorf("reading queued text for %s: %w", item.DocumentID, err)
	}
	metaData, err := os.ReadFile(filepath.Join(q.dir, item.DocumentID+".json"))
	if err != nil {
		return nil, fmt.Errorf("reading queued metadata for %s: %w", item.DocumentID, err)
	}
	var metadata map[string]any
	if err := json.Unmarshal(metaData, &metadata); err != nil {
		return nil, fmt.Errorf("reading queued metadata for %s: %w", item.DocumentID, err)
	}

	items = append(items[:oldest], items[oldest+1:]...)
	if err := q.writeItems(items); err != nil {
		return nil, err
	}
	for _, name := range []string{item.DocumentID + ".txt", item.DocumentID + ".json"} {
		if err := os.Remove(filepath.Join(q.dir, name)); err != nil && !os.IsNotExist(err) {
			q.logger.Warn("failed to remove dequeued blob", "file", name, "error", err)
		}
	}

	return &PendingDocument{
		DocumentID: item.DocumentID,
		Text:       string(text),
		Metadata:   metadata,
		CreatedAt:  item.CreatedAt,
	}, nil
}

// Count returns the number of pending documents.
func (q *FileQueue) Count(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.readItems()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Close is a no-op for the file backend.
func (q *FileQueue) Close() error {
	return nil
}
