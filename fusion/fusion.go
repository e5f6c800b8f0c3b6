// Package fusion merges a lexical ranking and a vector ranking into a single
// relevance order using weighted Reciprocal Rank Fusion. BM25 scores and
// cosine similarities live on incomparable scales, so the fused score is a
// function of rank position, not of the raw scores.
//
// Fuse is a pure function of its inputs; it never touches an index, which
// keeps it testable in isolation.
package fusion

import (
	"errors"
	"sort"

	"github.com/poiesic/searchit/core"
)

const (
	// smoothingConstant dampens the influence of top ranks, the usual RRF k.
	smoothingConstant = 60

	// The vector list outweighs the keyword list: semantic relevance is less
	// tunable downstream than term statistics.
	vectorWeight  = 0.6
	keywordWeight = 0.4

	// Below these thresholds a match is treated as noise: raw cosine
	// similarity for vector matches, min-max normalized score for keyword
	// matches.
	minVectorScore  = 0.3
	minKeywordScore = 0.3
)

// ErrNoResults indicates both input rankings were empty: nothing to rank.
var ErrNoResults = errors.New("no results to fuse")

// Fuse combines keyword and vector rankings, both sorted by descending score,
// into one list of at most maxResults fused matches.
//
// If exactly one input is empty the other is returned verbatim (original
// scores, original relative order, truncated). Otherwise each list is
// filtered, re-scored by rank as weight/(smoothingConstant+rank+1), and
// merged by document ID: documents present in both lists sum their two fused
// scores and keep the vector side's chunk information, documents only in the
// keyword list carry no chunk.
func Fuse(keywordResults []core.KeywordMatch, vectorResults []core.VectorMatch, maxResults int) ([]core.FusedMatch, error) {
	if len(keywordResults) == 0 && len(vectorResults) == 0 {
		return nil, ErrNoResults
	}
	if len(vectorResults) == 0 {
		return truncate(keywordOnly(keywordResults), maxResults), nil
	}
	if len(keywordResults) == 0 {
		return truncate(vectorOnly(vectorResults), maxResults), nil
	}

	fusedVector := make([]core.FusedMatch, 0, len(vectorResults))
	rank := 0
	for _, match := range vectorResults {
		if match.Score < minVectorScore {
			continue
		}
		fusedVector = append(fusedVector, core.FusedMatch{
			DocumentID: match.DocumentID,
			ChunkID:    match.ChunkID,
			HasChunk:   true,
			Score:      rrfScore(rank, vectorWeight),
		})
		rank++
	}

	fusedKeyword := make([]core.FusedMatch, 0, len(keywordResults))
	rank = 0
	for _, match := range normalizeKeywordScores(keywordResults) {
		if match.Score < minKeywordScore {
			continue
		}
		fusedKeyword = append(fusedKeyword, core.FusedMatch{
			DocumentID: match.DocumentID,
			Score:      rrfScore(rank, keywordWeight),
		})
		rank++
	}

	keywordByID := make(map[string]core.FusedMatch, len(fusedKeyword))
	for _, match := range fusedKeyword {
		keywordByID[match.DocumentID] = match
	}

	merged := make([]core.FusedMatch, 0, len(fusedVector)+len(fusedKeyword))
	inVector := make(map[string]bool, len(fusedVector))
	for _, match := range fusedVector {
		if keyword, ok := keywordByID[match.DocumentID]; ok {
			match.Score += keyword.Score
		}
		inVector[match.DocumentID] = true
		merged = append(merged, match)
	}
	for _, match := range fusedKeyword {
		if !inVector[match.DocumentID] {
			merged = append(merged, match)
		}
	}

	sortByScore(merged)
	return truncate(merged, maxResults), nil
}

// rrfScore is the reciprocal rank fusion score of the 0-based rank position.
func rrfScore(rank int, weight float64) float64 {
	return weight / (smoothingConstant + float64(rank) + 1)
}

// normalizeKeywordScores min-max normalizes the batch's scores to [0, 1]
// using its own extremes. When every score is identical the spread is zero;
// instead of producing NaN, a uniform positive batch normalizes to 1 so it
// survives the filter, while a uniform zero batch (no query term matched
// anything) normalizes to 0 and is filtered out.
func normalizeKeywordScores(results []core.KeywordMatch) []core.KeywordMatch {
	minScore := results[0].Score
	maxScore := results[0].Score
	for _, match := range results[1:] {
		if match.Score < minScore {
			minScore = match.Score
		}
		if match.Score > maxScore {
			maxScore = match.Score
		}
	}

	normalized := make([]core.KeywordMatch, len(results))
	spread := maxScore - minScore
	for i, match := range results {
		var score float64
		switch {
		case spread > 0:
			score = (match.Score - minScore) / spread
		case maxScore > 0:
			score = 1.0
		}
		normalized[i] = core.KeywordMatch{DocumentID: match.DocumentID, Score: score}
	}
	return normalized
}

func keywordOnly(results []core.KeywordMatch) []core.FusedMatch {
	fused := make([]core.FusedMatch, len(results))
	for i, match := range results {
		fused[i] = core.FusedMatch{DocumentID: match.DocumentID, Score: match.Score}
	}
	return fused
}

func vectorOnly(results []core.VectorMatch) []core.FusedMatch {
	fused := make([]core.FusedMatch, len(results))
	for i, match := range results {
		fused[i] = core.FusedMatch{
			DocumentID: match.DocumentID,
			ChunkID:    match.ChunkID,
			HasChunk:   true,
			Score:      match.Score,
		}
	}
	return fused
}

// sortByScore sorts descending, stable so equal scores keep merge order and
// fusing the same inputs twice yields the same output.
func sortByScore(results []core.FusedMatch) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func truncate(results []core.FusedMatch, maxResults int) []core.FusedMatch {
	if maxResults >= 0 && len(results) > maxResults {
		return results[:maxResults]
	}
	return results
}
