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

// Package queue provides a durable FIFO ingestion queue. Documents wait here
// between upload and indexing so a crash between the two loses no input.
// Two backends implement the same contract: a directory of files and an
// embedded SQLite database.
package queue

import (
	"context"
	"time"
)

// Item is the durable queue record for one pending document. The text and
// metadata blobs live beside it, keyed by document ID.
type Item struct {
	DocumentID string    `json:"documentID"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PendingDocument is a dequeued item with its blobs resolved.
type PendingDocument struct {
	DocumentID string
	Text       string
	Metadata   map[string]any
	CreatedAt  time.Time
}

// Queue is a durable first-in-first-out document queue. Implementations must
// make the text and metadata blobs durable before the queue record, so a
// visible record always has readable blobs.
type Queue interface {
	// Enqueue adds a document to the queue. Enqueueing an ID that is
	// already pending replaces its blobs and moves it to the back.
	Enqueue(ctx context.Context, documentID, text string, metadata map[string]any) error

	// DequeueNext removes and returns the oldest pending document.
	// Returns (nil, nil) when the queue is empty. Dequeued items are
	// consumed permanently; there is no redelivery.
	DequeueNext(ctx context.Context) (*PendingDocument, error)

	// Count returns the number of pending documents.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the backend.
	Close() error
}
