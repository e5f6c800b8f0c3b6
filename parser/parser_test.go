package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFileSupported(t *testing.T) {
	assert.True(t, IsFileSupported("notes.txt"))
	assert.True(t, IsFileSupported("README.md"))
	assert.True(t, IsFileSupported("data.CSV"))
	assert.False(t, IsFileSupported("report.docx"))
	assert.False(t, IsFileSupported("binary"))
}

func TestMimeType(t *testing.T) {
	mimeType, err := MimeType("guide.md")
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", mimeType)

	_, err = MimeType("image.png")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestParse(t *testing.T) {
	t.Run("plain text by extension", func(t *testing.T) {
		content, err := Parse([]byte("hello world"), "notes.txt", "")
		require.NoError(t, err)
		assert.Equal(t, "hello world", content)
	})

	t.Run("explicit mime type wins", func(t *testing.T) {
		content, err := Parse([]byte("a,b,c"), "export.bin", "text/csv")
		require.NoError(t, err)
		assert.Equal(t, "a,b,c", content)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Parse([]byte{0x50, 0x4b}, "report.docx", "")
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("unsupported mime type", func(t *testing.T) {
		_, err := Parse([]byte("x"), "report.docx",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("invalid utf8 rejected", func(t *testing.T) {
		_, err := Parse([]byte{0xff, 0xfe, 0x00}, "notes.txt", "")
		require.ErrorIs(t, err, ErrUnsupportedType)
	})
}
