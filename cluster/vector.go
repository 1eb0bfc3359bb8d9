// CLAUDE:SUMMARY Cosine similarity over float32 vectors; zero-magnitude vectors score 0, never NaN.
package cluster

import "math"

// Cosine computes cosine similarity between two vectors. Mismatched lengths
// or a zero-magnitude operand score 0 — degenerate inputs are defined, not
// exceptional.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
