package vector

import (
	"fmt"
	"math"
	"sort"
)

// Match pairs a candidate's position in the input slice with its cosine
// similarity to the query.
type Match struct {
	Index      int
	Similarity float64
}

// Search ranks candidates against query by cosine similarity and returns the
// top k matches ordered by descending similarity, ties keeping input order
// (stable sort). Candidates whose similarity is NaN (zero-norm vectors) are
// excluded. Empty candidates or k <= 0 return nil without error; a
// dimensionality mismatch on any candidate fails the whole call.
func Search(query []float32, candidates [][]float32, k int) ([]Match, error) {
	if len(candidates) == 0 || k <= 0 {
		return nil, nil
	}
	matches := make([]Match, 0, len(candidates))
	for i, cand := range candidates {
		sim, err := CosineSimilarity(query, cand)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		if math.IsNaN(sim) {
			continue
		}
		matches = append(matches, Match{Index: i, Similarity: sim})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}
