package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/searchit/ai"
	"github.com/poiesic/searchit/core"
	"github.com/poiesic/searchit/engine"
	"github.com/poiesic/searchit/queue"
)

// Worker drains the ingestion queue into the search engine: each pending
// document is chunked, embedded and indexed. Items that fail mid-processing
// are logged and lost; the queue does not redeliver.
type Worker struct {
	queue        queue.Queue
	engine       *engine.Engine
	embedder     ai.Embedder
	pool         *ants.Pool
	chunkSize    int
	chunkOverlap int
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Worker.
type Option func(*Worker) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(w *Worker) error {
		if size < 1 {
			size = 1
		}
		if w.pool != nil {
			w.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		w.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// WithChunking sets the chunk window and overlap, in words.
func WithChunking(chunkSize, overlap int) Option {
	return func(w *Worker) error {
		if chunkSize <= 0 {
			return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
		}
		if overlap < 0 || overlap >= chunkSize {
			return fmt.Errorf("chunk overlap must be in [0, chunk size), got %d", overlap)
		}
		w.chunkSize = chunkSize
		w.chunkOverlap = overlap
		return nil
	}
}

// WithPollInterval sets how long Run sleeps when the queue is empty.
// Default is two seconds.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) error {
		if interval <= 0 {
			return fmt.Errorf("poll interval must be positive, got %s", interval)
		}
		w.pollInterval = interval
		return nil
	}
}

// NewWorker creates a queue worker.
func NewWorker(q queue.Queue, eng *engine.Engine, embedder ai.Embedder, opts ...Option) (*Worker, error) {
	if q == nil {
		return nil, ErrQueueRequired
	}
	if eng == nil {
		return nil, ErrEngineRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		queue:        q,
		engine:       eng,
		embedder:     embedder,
		pool:         pool,
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		pollInterval: 2 * time.Second,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(w); optErr != nil {
			w.Release()
			return nil, optErr
		}
	}
	return w, nil
}

// ProcessNext dequeues and indexes one document. Returns false when the
// queue was empty. Oversize and empty documents are consumed and dropped
// with a log entry rather than returned as errors, since the queue cannot
// redeliver them.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	pending, err := w.queue.DequeueNext(ctx)
	if err != nil {
		return false, err
	}
	if pending == nil {
		return false, nil
	}
	if err := w.process(ctx, pending); err != nil {
		return true, fmt.Errorf("processing %s: %w", pending.DocumentID, err)
	}
	return true, nil
}

func (w *Worker) process(ctx context.Context, pending *queue.PendingDocument) error {
	texts, err := ChunkDocument(pending.Text, w.chunkSize, w.chunkOverlap)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		w.logger.Warn("dropping empty document", "documentID", pending.DocumentID)
		return nil
	}
	for _, text := range texts {
		if w.embedder.TooLarge(text) {
			w.logger.Warn("dropping oversize document", "documentID", pending.DocumentID)
			return nil
		}
	}

	embeddings, err := w.embedder.EmbedChunks(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedder returned %d embeddings for %d chunks", len(embeddings), len(texts))
	}

	chunks := make([]core.EmbeddedChunk, len(texts))
	for i, text := range texts {
		chunks[i] = core.EmbeddedChunk{ChunkID: i, Text: text, Embedding: embeddings[i]}
	}

	doc := engine.Document{
		ID:       pending.DocumentID,
		Metadata: pending.Metadata,
		Chunks:   chunks,
	}
	if title, ok := pending.Metadata["title"].(string); ok {
		doc.Title = title
	}

	if err := w.engine.AddDocuments(ctx, doc); err != nil {
		return err
	}
	w.logger.Info("indexed document", "documentID", pending.DocumentID, "chunks", len(chunks))
	return nil
}

// Run drains the queue until the context is canceled, sleeping for the poll
// interval whenever the queue is empty. Items are processed on the worker
// pool; processing errors are logged, not returned, because the item is
// already consumed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		pending, err := w.queue.DequeueNext(ctx)
		if err != nil {
			w.logger.Error("failed to dequeue", "error", err)
			return err
		}
		if pending == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.pollInterval):
			}
			continue
		}

		item := pending
		if err := w.pool.Submit(func() {
			if err := w.process(ctx, item); err != nil {
				w.logger.Error("error processing document", "documentID", item.DocumentID, "err", err)
			}
		}); err != nil {
			return err
		}
	}
}

// Release releases the worker pool.
// The worker should not be used after calling Release.
func (w *Worker) Release() {
	if w.pool != nil {
		w.pool.Release()
	}
}
