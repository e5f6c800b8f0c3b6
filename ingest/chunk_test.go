package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestChunkDocument(t *testing.T) {
	t.Run("short document is a single chunk", func(t *testing.T) {
		chunks, err := ChunkDocument("just a few words", 512, 0)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "just a few words", chunks[0])
	})

	t.Run("splits at the window boundary", func(t *testing.T) {
		chunks, err := ChunkDocument(words(10), 4, 0)
		require.NoError(t, err)
		require.Len(t, chunks, 3)
		assert.Equal(t, "w0 w1 w2 w3", chunks[0])
		assert.Equal(t, "w4 w5 w6 w7", chunks[1])
		assert.Equal(t, "w8 w9", chunks[2])
	})

	t.Run("overlap repeats the window tail", func(t *testing.T) {
		chunks, err := ChunkDocument(words(8), 4, 2)
		require.NoError(t, err)
		require.Len(t, chunks, 3)
		assert.Equal(t, "w0 w1 w2 w3", chunks[0])
		assert.Equal(t, "w2 w3 w4 w5", chunks[1])
		assert.Equal(t, "w4 w5 w6 w7", chunks[2])
	})

	t.Run("collapses whitespace runs", func(t *testing.T) {
		chunks, err := ChunkDocument("  alpha \n\n beta\tgamma  ", 512, 0)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "alpha beta gamma", chunks[0])
	})

	t.Run("empty document yields no chunks", func(t *testing.T) {
		chunks, err := ChunkDocument("   \n ", 512, 0)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("rejects bad parameters", func(t *testing.T) {
		_, err := ChunkDocument("text", 0, 0)
		require.Error(t, err)

		_, err = ChunkDocument("text", 4, 4)
		require.Error(t, err)

		_, err = ChunkDocument("text", 4, -1)
		require.Error(t, err)
	})
}
