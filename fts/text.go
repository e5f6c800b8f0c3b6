package fts

import (
	"regexp"
	"strings"
)

// nonWord matches every character that is neither a word character nor
// whitespace. Stripping them (rather than splitting on them) keeps
// "don't" -> "dont" instead of producing two tokens.
var nonWord = regexp.MustCompile(`[^\s\w]`)

// normalize prepares text for BM25: lowercase, strip punctuation and other
// non-word characters, then split on runs of whitespace. The same function
// must be applied to documents and queries or term lookups will not line up.
func normalize(text string) []string {
	cleaned := nonWord.ReplaceAllString(text, "")
	return strings.Fields(strings.ToLower(cleaned))
}
