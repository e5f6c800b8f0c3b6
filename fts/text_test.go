package fts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// writeFile is a test helper shared across the package's tests.
func writeFile(t *testing.T, dir, name, content string) error {
	t.Helper()
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}

func TestNormalize(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		assert.Equal(t, []string{"hello", "world"}, normalize("Hello, World!"))
	})

	t.Run("collapses whitespace and newlines", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, normalize("a\n\n b\t\t  c "))
	})

	t.Run("keeps digits underscores and removes dashes", func(t *testing.T) {
		assert.Equal(t, []string{"item_42", "covid19"}, normalize("item_42 covid-19"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, normalize(""))
		assert.Empty(t, normalize("   \n\t "))
		assert.Empty(t, normalize("!!! ??? ..."))
	})
}
