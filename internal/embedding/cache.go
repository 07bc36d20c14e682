package embedding

import (
	"container/list"
	"context"
	"errors"
	"sync"
)

// DefaultCacheSize is the cache capacity used when none is configured.
const DefaultCacheSize = 10000

// CachedEmbedder wraps an Embedder with an LRU cache keyed by input text,
// so repeated texts (re-ingested documents, repeated queries) skip the
// backend entirely.
type CachedEmbedder struct {
	inner    Embedder
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	key   string
	value []float32
}

// NewCachedEmbedder wraps inner with an LRU cache of the given capacity.
// A non-positive capacity falls back to DefaultCacheSize.
func NewCachedEmbedder(inner Embedder, capacity int) *CachedEmbedder {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &CachedEmbedder{
		inner:    inner,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Embed returns the cached vector for text or embeds it through the backend.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.get(text); ok {
		return vec, nil
	}
	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.put(text, vec)
	return vec, nil
}

// EmbedBatch serves cached texts locally and embeds only the misses,
// preserving input order. Item identities in backend errors are remapped to
// positions in the original batch.
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var misses []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok := c.get(text); ok {
			out[i] = vec
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}
	if len(misses) == 0 {
		return out, nil
	}
	vecs, err := c.inner.EmbedBatch(ctx, misses)
	if err != nil {
		var embErr *EmbeddingError
		if errors.As(err, &embErr) && embErr.Index >= 0 && embErr.Index < len(missIdx) {
			return nil, &EmbeddingError{Index: missIdx[embErr.Index], ChunkID: embErr.ChunkID, Err: embErr.Err}
		}
		return nil, err
	}
	for j, vec := range vecs {
		c.put(misses[j], vec)
		out[missIdx[j]] = vec
	}
	return out, nil
}

// Dimensions returns the backend's embedding dimensionality.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

// Close closes the backend.
func (c *CachedEmbedder) Close() error {
	return c.inner.Close()
}

// Len returns the number of cached entries.
func (c *CachedEmbedder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

func (c *CachedEmbedder) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry).value, true
	}
	return nil, false
}

func (c *CachedEmbedder) put(key string, value []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).value = value
		return
	}
	elem := c.lru.PushFront(&cacheEntry{key: key, value: value})
	c.entries[key] = elem
	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}
