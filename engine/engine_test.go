package engine

import (
	"context"
	"testing"

	"github.com/poiesic/searchit/ai/mock"
	"github.com/poiesic/searchit/core"
	"github.com/poiesic/searchit/fts"
	"github.com/poiesic/searchit/store"
	"github.com/poiesic/searchit/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEngine struct {
	engine   *Engine
	fts      *fts.Index
	vectors  *vector.Index
	sources  *store.FileStore
	embedder *mock.MockEmbedder
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	ftsIndex := fts.NewIndex("")
	vectorIndex := vector.NewIndex("")
	sources, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	embedder := mock.NewMockEmbedder()

	eng, err := NewEngine(ftsIndex, vectorIndex, sources, embedder)
	require.NoError(t, err)

	return &testEngine{
		engine:   eng,
		fts:      ftsIndex,
		vectors:  vectorIndex,
		sources:  sources,
		embedder: embedder,
	}
}

// queryVector pins the query embedding for a test.
func (te *testEngine) queryVector(v []float32) {
	te.embedder.EmbedQueryFunc = func(ctx context.Context, query string) ([]float32, error) {
		return v, nil
	}
}

func catAndDogDocuments() []Document {
	return []Document{
		{
			ID:    "doc-1",
			Title: "Cats",
			Chunks: []core.EmbeddedChunk{
				{ChunkID: 0, Text: "the cat sat on the mat", Embedding: []float32{1, 0, 0}},
			},
			Metadata: map[string]any{"kind": "feline"},
		},
		{
			ID:    "doc-2",
			Title: "Dogs",
			Chunks: []core.EmbeddedChunk{
				{ChunkID: 0, Text: "the dog sat on the rug", Embedding: []float32{0, 1, 0}},
			},
		},
	}
}

func TestNewEngineRequiresDependencies(t *testing.T) {
	ftsIndex := fts.NewIndex("")
	vectorIndex := vector.NewIndex("")
	sources, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	embedder := mock.NewMockEmbedder()

	_, err = NewEngine(nil, vectorIndex, sources, embedder)
	require.ErrorIs(t, err, ErrNoKeywordIndex)

	_, err = NewEngine(ftsIndex, nil, sources, embedder)
	require.ErrorIs(t, err, ErrNoVectorIndex)

	_, err = NewEngine(ftsIndex, vectorIndex, nil, embedder)
	require.ErrorIs(t, err, ErrNoStore)

	_, err = NewEngine(ftsIndex, vectorIndex, sources, nil)
	require.ErrorIs(t, err, ErrNoEmbedder)
}

func TestEngineAddAndSearch(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	require.NoError(t, te.engine.AddDocuments(ctx, catAndDogDocuments()...))

	te.queryVector([]float32{1, 0, 0})
	results, err := te.engine.Search(ctx, "cat", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "doc-1", top.DocumentID)
	assert.Equal(t, "Cats", top.Title)
	assert.Equal(t, "the cat sat on the mat", top.Content)
	assert.Equal(t, []string{"the cat sat on the mat"}, top.Highlights)
	assert.Equal(t, "feline", top.Metadata["kind"])
	assert.Greater(t, top.Score, 0.0)
}

func TestEngineSearchEmptyQuery(t *testing.T) {
	te := newTestEngine(t)

	_, err := te.engine.Search(context.Background(), "   ", 10)
	require.ErrorIs(t, err, ErrEmptyQuery)
}

func TestEngineSearchNoMatches(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	require.NoError(t, te.engine.AddDocuments(ctx, catAndDogDocuments()...))

	// A query matching no term, embedded orthogonally to every chunk.
	te.queryVector([]float32{0, 0, 1})
	results, err := te.engine.Search(ctx, "zeppelin", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineSearchEmptyCorpus(t *testing.T) {
	te := newTestEngine(t)

	te.queryVector([]float32{1, 0, 0})
	results, err := te.engine.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineAddReplacesExistingDocument(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)

	require.NoError(t, te.engine.AddDocuments(ctx, Document{
		ID: "doc-1",
		Chunks: []core.EmbeddedChunk{
			{ChunkID: 0, Text: "ancient manuscripts", Embedding: []float32{1, 0, 0}},
		},
	}))
	require.NoError(t, te.engine.AddDocuments(ctx, Document{
		ID: "doc-1",
		Chunks: []core.EmbeddedChunk{
			{ChunkID: 0, Text: "modern blueprints", Embedding: []float32{0, 1, 0}},
		},
	}))

	assert.Equal(t, 1, te.fts.Count())
	assert.Equal(t, 1, te.vectors.ChunkCount())
	// The replaced content's terms must be fully released.
	assert.Equal(t, 0, te.fts.DocumentFrequency("ancient"))
	assert.Equal(t, 1, te.fts.DocumentFrequency("modern"))

	doc, err := te.engine.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"modern blueprints"}, doc.ChunkedContent)
}

func TestEngineAddRejectsEmptyDocument(t *testing.T) {
	te := newTestEngine(t)

	err := te.engine.AddDocuments(context.Background(), Document{ID: "doc-1"})
	require.ErrorIs(t, err, core.ErrEmptyContent)
}

func TestEngineDeleteDocuments(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	require.NoError(t, te.engine.AddDocuments(ctx, catAndDogDocuments()...))

	require.NoError(t, te.engine.DeleteDocuments(ctx, "doc-1", "never-indexed"))

	assert.False(t, te.engine.DocumentExists("doc-1"))
	assert.True(t, te.engine.DocumentExists("doc-2"))
	assert.Equal(t, 1, te.vectors.ChunkCount())

	_, err := te.engine.GetDocument(ctx, "doc-1")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestEngineReindex(t *testing.T) {
	ctx := context.Background()
	te := newTestEngine(t)
	require.NoError(t, te.engine.AddDocuments(ctx, catAndDogDocuments()...))

	// A new embedding model maps every chunk to a different space.
	te.embedder.EmbedChunksFunc = func(ctx context.Context, chunks []string) ([][]float32, error) {
		vectors := make([][]float32, len(chunks))
		for i := range chunks {
			vectors[i] = []float32{0, 0, 1}
		}
		return vectors, nil
	}
	require.NoError(t, te.engine.Reindex(ctx))

	assert.Equal(t, 2, te.vectors.ChunkCount())

	te.queryVector([]float32{0, 0, 1})
	results, err := te.engine.Search(ctx, "cat", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
}

func TestEngineLoadRestoresState(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	ftsIndex := fts.NewIndex(dataDir + "/fts")
	vectorIndex := vector.NewIndex(dataDir + "/vector")
	sources, err := store.NewFileStore(dataDir + "/sources")
	require.NoError(t, err)
	embedder := mock.NewMockEmbedder()

	eng, err := NewEngine(ftsIndex, vectorIndex, sources, embedder)
	require.NoError(t, err)
	require.NoError(t, eng.AddDocuments(ctx, catAndDogDocuments()...))

	reopenedFTS := fts.NewIndex(dataDir + "/fts")
	reopenedVectors := vector.NewIndex(dataDir + "/vector")
	reopened, err := NewEngine(reopenedFTS, reopenedVectors, sources, embedder)
	require.NoError(t, err)
	require.NoError(t, reopened.Load())

	embedder.EmbedQueryFunc = func(ctx context.Context, query string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	results, err := reopened.Search(ctx, "cat", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "doc-1", results[0].DocumentID)
}
