package models

// RetrievedChunk is a single retrieval hit: a chunk together with its
// cosine similarity to the query and its 1-based rank in the result set.
type RetrievedChunk struct {
	Chunk      *Chunk  `json:"chunk"`
	Similarity float64 `json:"similarity"`
	Rank       int     `json:"rank"`
}

// RetrievedContext is the response for a retrieval request: the ranked
// chunks plus their deterministic textual serialization for prompt
// injection. Context is empty when there are no results.
type RetrievedContext struct {
	Query     string            `json:"query"`
	Results   []*RetrievedChunk `json:"results"`
	Context   string            `json:"context"`
	QueryTime int64             `json:"query_time_ms"`
}

// Stats reports store counts for the status surface.
type Stats struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}
