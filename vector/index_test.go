package vector

import (
	"fmt"
	"testing"

	"github.com/poiesic/searchit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("vector against itself is one", func(t *testing.T) {
		for _, v := range [][]float32{
			{1, 0, 0},
			{0.3, -0.7, 2.1},
			{-4, 5, -6, 7},
		} {
			score, err := CosineSimilarity(v, v)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, score, 1e-9)
		}
	})

	t.Run("opposite vectors score minus one", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{1, 0, 0}, []float32{-1, 0, 0})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, score, 1e-9)
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		score, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, score, 1e-9)
	})

	t.Run("zero vector is an explicit error", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
		assert.ErrorIs(t, err, ErrZeroVector)

		_, err = CosineSimilarity([]float32{1, 2, 3}, []float32{0, 0, 0})
		assert.ErrorIs(t, err, ErrZeroVector)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestAddChunks_ReplacesExisting(t *testing.T) {
	idx := NewIndex("")
	require.NoError(t, idx.AddChunks("doc-1", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{1, 0}},
	}))
	require.NoError(t, idx.AddChunks("doc-1", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{0, 1}},
	}))
	assert.Equal(t, 1, idx.ChunkCount())

	results, err := idx.Search([]float32{0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestDeleteDocument_RemovesAllChunks(t *testing.T) {
	idx := NewIndex("")
	require.NoError(t, idx.AddChunks("doc-1", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{1, 0}},
		{ChunkID: 1, Embedding: []float32{0, 1}},
	}))
	require.NoError(t, idx.AddChunks("doc-2", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{1, 1}},
	}))

	idx.DeleteDocument("doc-1")
	assert.Equal(t, 1, idx.ChunkCount())

	idx.DeleteDocument("doc-1") // no-op
	assert.Equal(t, 1, idx.ChunkCount())
}

func TestSearch_BulkCorpusExcludesOpposingVector(t *testing.T) {
	idx := NewIndex("")
	for i := 0; i < 149; i++ {
		id := fmt.Sprintf("doc-%03d", i)
		require.NoError(t, idx.AddChunks(id, []core.EmbeddedChunk{
			{ChunkID: 0, Embedding: []float32{1, 0, 0}},
		}))
	}
	require.NoError(t, idx.AddChunks("opposing", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{-1, 0, 0}},
	}))

	results, err := idx.Search([]float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 10)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	for _, result := range results {
		assert.NotEqual(t, "opposing", result.DocumentID)
	}
}

func TestSearch_ZeroQueryVectorFails(t *testing.T) {
	idx := NewIndex("")
	require.NoError(t, idx.AddChunks("doc-1", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{1, 0}},
	}))

	_, err := idx.Search([]float32{0, 0}, 10)
	assert.ErrorIs(t, err, ErrZeroVector)
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx := NewIndex("")
	results, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex(dir)
	require.NoError(t, idx.AddChunks("doc-1", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{1, 0, 0}},
		{ChunkID: 1, Embedding: []float32{0, 1, 0}},
	}))
	require.NoError(t, idx.AddChunks("doc-2", []core.EmbeddedChunk{
		{ChunkID: 0, Embedding: []float32{0, 0, 1}},
	}))
	require.NoError(t, idx.Save())

	reloaded := NewIndex(dir)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 3, reloaded.ChunkCount())

	results, err := reloaded.Search([]float32{0, 1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1", results[0].DocumentID)
	assert.Equal(t, 1, results[0].ChunkID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSaveLoad_MissingDirectoryLoadsEmpty(t *testing.T) {
	idx := NewIndex(t.TempDir() + "/absent")
	require.NoError(t, idx.Load())
	assert.Equal(t, 0, idx.ChunkCount())
}
