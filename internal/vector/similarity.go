// Package vector provides cosine similarity and top-k ranking over embedding vectors.
package vector

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch reports an attempt to compare vectors of unequal
// length. It is always a defect in the calling code, never a recoverable
// runtime condition.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// DotProduct returns the inner product of two equal-length vectors
// (for normalized vectors this equals cosine similarity).
func DotProduct(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// Norm returns the Euclidean (L2) norm of a vector.
func Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. It fails with ErrDimensionMismatch when the lengths differ and
// never silently truncates or pads. When either vector has zero norm the
// result is NaN; callers must treat NaN as "no match" and exclude it from
// ranking rather than propagate it.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	sim := DotProduct(a, b) / (Norm(a) * Norm(b))
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim, nil
}
