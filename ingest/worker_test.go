package ingest

import (
	"context"
	"testing"

	"github.com/poiesic/searchit/ai/mock"
	"github.com/poiesic/searchit/engine"
	"github.com/poiesic/searchit/fts"
	"github.com/poiesic/searchit/queue"
	"github.com/poiesic/searchit/store"
	"github.com/poiesic/searchit/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, opts ...Option) (*Worker, *engine.Engine, queue.Queue, *mock.MockEmbedder) {
	t.Helper()

	sources, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	embedder := mock.NewMockEmbedder()

	eng, err := engine.NewEngine(fts.NewIndex(""), vector.NewIndex(""), sources, embedder)
	require.NoError(t, err)

	q, err := queue.NewFileQueue(t.TempDir())
	require.NoError(t, err)

	w, err := NewWorker(q, eng, embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(w.Release)

	return w, eng, q, embedder
}

func TestNewWorkerRequiresDependencies(t *testing.T) {
	_, eng, q, embedder := newTestWorker(t)

	_, err := NewWorker(nil, eng, embedder)
	require.ErrorIs(t, err, ErrQueueRequired)

	_, err = NewWorker(q, nil, embedder)
	require.ErrorIs(t, err, ErrEngineRequired)

	_, err = NewWorker(q, eng, nil)
	require.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestWorkerProcessNext(t *testing.T) {
	ctx := context.Background()
	w, eng, q, _ := newTestWorker(t)

	require.NoError(t, q.Enqueue(ctx, "doc-1", "the cat sat on the mat",
		map[string]any{"title": "Cats"}))

	processed, err := w.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, processed)

	require.True(t, eng.DocumentExists("doc-1"))
	doc, err := eng.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Cats", doc.Title)
	assert.Equal(t, []string{"the cat sat on the mat"}, doc.ChunkedContent)
}

func TestWorkerProcessNextEmptyQueue(t *testing.T) {
	w, _, _, _ := newTestWorker(t)

	processed, err := w.ProcessNext(context.Background())
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestWorkerChunksLongDocuments(t *testing.T) {
	ctx := context.Background()
	w, eng, q, _ := newTestWorker(t, WithChunking(4, 0))

	require.NoError(t, q.Enqueue(ctx, "doc-1",
		"one two three four five six seven eight nine ten", nil))

	processed, err := w.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, processed)

	doc, err := eng.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"one two three four",
		"five six seven eight",
		"nine ten",
	}, doc.ChunkedContent)
}

func TestWorkerDropsOversizeDocument(t *testing.T) {
	ctx := context.Background()
	w, eng, q, embedder := newTestWorker(t)
	embedder.TooLargeFunc = func(text string) bool { return true }

	require.NoError(t, q.Enqueue(ctx, "doc-1", "some text", nil))

	processed, err := w.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, processed)
	assert.False(t, eng.DocumentExists("doc-1"))

	// The item was consumed, not left pending.
	count, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWorkerDropsEmptyDocument(t *testing.T) {
	ctx := context.Background()
	w, eng, q, _ := newTestWorker(t)

	require.NoError(t, q.Enqueue(ctx, "doc-1", "   \n  ", nil))

	processed, err := w.ProcessNext(ctx)
	require.NoError(t, err)
	assert.True(t, processed)
	assert.False(t, eng.DocumentExists("doc-1"))
}

func TestWorkerIndexedDocumentIsSearchable(t *testing.T) {
	ctx := context.Background()
	w, eng, q, embedder := newTestWorker(t)

	require.NoError(t, q.Enqueue(ctx, "doc-1", "the cat sat on the mat", nil))
	require.NoError(t, q.Enqueue(ctx, "doc-2", "the dog sat on the rug", nil))

	for {
		processed, err := w.ProcessNext(ctx)
		require.NoError(t, err)
		if !processed {
			break
		}
	}

	// The mock embeds identical text to identical vectors, so querying with
	// a document's own words lands nearest to it.
	embedder.EmbedQueryFunc = func(ctx context.Context, query string) ([]float32, error) {
		vectors, err := embedder.EmbedChunks(ctx, []string{"the cat sat on the mat"})
		if err != nil {
			return nil, err
		}
		return vectors[0], nil
	}
	results, err := eng.Search(ctx, "cat", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc-1", results[0].DocumentID)
}
