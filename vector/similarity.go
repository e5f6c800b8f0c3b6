package vector

import "math"

// CosineSimilarity computes (a·b) / (‖a‖·‖b‖) for two vectors of identical
// dimensionality. It returns ErrDimensionMismatch for vectors of different
// lengths and ErrZeroVector when either norm is zero.
//
// Dot product and both norms accumulate in a single pass; the accumulators
// are float64 so long float32 vectors do not lose precision.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, ErrZeroVector
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
