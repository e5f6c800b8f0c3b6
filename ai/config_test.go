package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://embeddings.local:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithMaxInputRunes(2048),
	)

	assert.Equal(t, "http://embeddings.local:9100", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 2048, cfg.MaxInputRunes)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"leaves v1 suffix alone", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"leaves empty host alone", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithHost(""))
		require.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive input budget", func(t *testing.T) {
		cfg := NewConfig(WithMaxInputRunes(0))
		require.Error(t, cfg.Validate())
	})

	t.Run("validate normalizes the host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}
