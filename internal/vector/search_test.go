package vector

import (
	"errors"
	"math"
	"testing"
)

func TestSearch_OrdersDescending(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{0, 1}, // similarity 0
		{1, 0}, // similarity 1
		{1, 1}, // similarity ~0.707
	}
	matches, err := Search(query, candidates, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	wantOrder := []int{1, 2, 0}
	for i, m := range matches {
		if m.Index != wantOrder[i] {
			t.Errorf("match %d index = %d, want %d", i, m.Index, wantOrder[i])
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Errorf("matches not descending at %d: %f > %f", i, matches[i].Similarity, matches[i-1].Similarity)
		}
	}
}

func TestSearch_StableTies(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{2, 0}, // similarity 1
		{0, 1}, // similarity 0
		{5, 0}, // similarity 1, ties with candidate 0
	}
	matches, err := Search(query, candidates, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	if matches[0].Index != 0 || matches[1].Index != 2 {
		t.Errorf("tie order = [%d, %d], want input order [0, 2]", matches[0].Index, matches[1].Index)
	}
}

func TestSearch_TruncatesToK(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{{1, 0}, {1, 1}, {0, 1}, {1, 2}}
	matches, err := Search(query, candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Index != 0 {
		t.Errorf("best match index = %d, want 0", matches[0].Index)
	}
}

func TestSearch_EmptyCandidates(t *testing.T) {
	matches, err := Search([]float32{1, 0}, nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches != nil {
		t.Errorf("expected nil matches, got %v", matches)
	}
}

func TestSearch_ExcludesNaN(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{0, 0}, // zero norm, NaN similarity
		{1, 0},
	}
	matches, err := Search(query, candidates, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match after NaN exclusion, got %d", len(matches))
	}
	if matches[0].Index != 1 {
		t.Errorf("match index = %d, want 1", matches[0].Index)
	}
	if math.IsNaN(matches[0].Similarity) {
		t.Error("NaN similarity leaked into results")
	}
}

func TestSearch_DimensionMismatchFails(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{{1, 0}, {1, 0, 0}}
	_, err := Search(query, candidates, 10)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}
