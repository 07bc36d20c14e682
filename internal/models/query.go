package models

import "fmt"

// RetrieveRequest represents a retrieval query against the stored chunks.
type RetrieveRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	// SimilarityThreshold excludes results whose cosine similarity falls
	// below it. Zero means the caller-level default applies.
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
}

// Validate ensures the request has valid fields and sets defaults.
// Returns an error if the query is empty; otherwise normalizes
// MaxResults and clamps the threshold into the cosine range.
func (r *RetrieveRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.MaxResults <= 0 {
		r.MaxResults = 5
	}
	if r.MaxResults > 100 {
		r.MaxResults = 100
	}
	if r.SimilarityThreshold < -1 {
		r.SimilarityThreshold = -1
	}
	if r.SimilarityThreshold > 1 {
		r.SimilarityThreshold = 1
	}
	return nil
}
