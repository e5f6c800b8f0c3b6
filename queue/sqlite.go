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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poiesic/searchit/core"
)

const createQueueTable = `
CREATE TABLE IF NOT EXISTS queue_items (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id TEXT NOT NULL UNIQUE,
	text        TEXT NOT NULL,
	metadata    TEXT NOT NULL,
	created_at  INTEGER NOT NULL
)`

// SQLiteQueue stores pending documents in an embedded SQLite database. The
// row is the record and the blobs at once, so the blob-before-record ordering
// holds trivially.
type SQLiteQueue struct {
	db *sql.DB
}

var _ Queue = (*SQLiteQueue)(nil)

// NewSQLiteQueue opens the queue database at dbPath, creating it and its
// schema if needed.
func NewSQLiteQueue(dbPath string) (*SQLiteQueue, error) {
	// WAL mode for concurrent readers alongside the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening queue database: %w", err)
	}
	if _, err := db.Exec(createQueueTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating queue schema: %w", err)
	}
	return &SQLiteQueue{db: db}, nil
}

// Enqueue adds a document, replacing an already pending row with the same ID.
func (q *SQLiteQueue) Enqueue(ctx context.Context, documentID, text string, metadata map[string]any) error {
	if err := core.ValidateDocumentID(documentID); err != nil {
		return err
	}
	metaData, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	// OR REPLACE gives a re-enqueued document a fresh seq, so it moves to
	// the back even when timestamps collide.
	_, err = q.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO queue_items (document_id, text, metadata, created_at)
		VALUES (?, ?, ?, ?)`,
		documentID, text, string(metaData), time.Now().UTC().UnixMicro())
	return err
}

// DequeueNext removes and returns the oldest pending document, or (nil, nil)
// when the queue is empty.
func (q *SQLiteQueue) DequeueNext(ctx context.Context) (*PendingDocument, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT document_id, text, metadata, created_at
		FROM queue_items
		ORDER BY created_at, seq
		LIMIT 1`)

	var (
		documentID string
		text       string
		metaData   string
		createdAt  int64
	)
	err = row.Scan(&documentID, &text, &metaData, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var metadata map[string]any
	if err := json.Unmarshal([]byte(metaData), &metadata); err != nil {
		return nil, fmt.Errorf("reading queued metadata for %s: %w", documentID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM queue_items WHERE document_id = ?`, documentID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &PendingDocument{
		DocumentID: documentID,
		Text:       text,
		Metadata:   metadata,
		CreatedAt:  time.UnixMicro(createdAt).UTC(),
	}, nil
}

// Count returns the number of pending documents.
func (q *SQLiteQueue) Count(ctx context.Context) (int, error) {
	var count int
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_items`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (q *SQLiteQueue) Close() error {
	return q.db.Close()
}
