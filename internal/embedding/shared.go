package embedding

import (
	"context"
	"sync"
)

// Factory constructs a concrete embedding backend.
type Factory func() (Embedder, error)

// SharedEmbedder is the process-wide embedding handle: it constructs its
// backend lazily on first use and reuses it for all subsequent calls.
// Concurrent first callers await a single in-flight construction instead of
// each triggering their own. A failed construction is not memoized; the next
// call retries. Reset tears the backend down so tests can re-initialize.
type SharedEmbedder struct {
	factory    Factory
	dimensions int

	mu     sync.Mutex
	handle *initHandle
}

type initHandle struct {
	done    chan struct{}
	backend Embedder
	err     error
}

// NewShared creates a shared handle around factory. The configured
// dimensionality is reported without forcing initialization; backends are
// expected to validate their own output against it.
func NewShared(dimensions int, factory Factory) *SharedEmbedder {
	return &SharedEmbedder{
		factory:    factory,
		dimensions: dimensions,
	}
}

// backend returns the initialized backend, constructing it on first use.
// The caller's context only bounds the wait; an in-flight construction keeps
// running so other callers can still adopt its result.
func (s *SharedEmbedder) backend(ctx context.Context) (Embedder, error) {
	s.mu.Lock()
	h := s.handle
	if h == nil {
		h = &initHandle{done: make(chan struct{})}
		s.handle = h
		go func() {
			h.backend, h.err = s.factory()
			close(h.done)
		}()
	}
	s.mu.Unlock()

	select {
	case <-h.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if h.err != nil {
		s.mu.Lock()
		if s.handle == h {
			s.handle = nil
		}
		s.mu.Unlock()
		return nil, h.err
	}
	return h.backend, nil
}

// Embed embeds text through the lazily-constructed backend.
func (s *SharedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	b, err := s.backend(ctx)
	if err != nil {
		return nil, err
	}
	return b.Embed(ctx, text)
}

// EmbedBatch embeds texts through the lazily-constructed backend.
func (s *SharedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	b, err := s.backend(ctx)
	if err != nil {
		return nil, err
	}
	return b.EmbedBatch(ctx, texts)
}

// Dimensions returns the configured embedding dimensionality.
func (s *SharedEmbedder) Dimensions() int {
	return s.dimensions
}

// Close tears down the current backend, waiting out an in-flight
// construction first. A later call re-initializes through the factory.
func (s *SharedEmbedder) Close() error {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	<-h.done
	if h.err != nil || h.backend == nil {
		return nil
	}
	return h.backend.Close()
}

// Reset discards the current backend for test isolation. It is equivalent
// to Close; the next call constructs a fresh backend.
func (s *SharedEmbedder) Reset() error {
	return s.Close()
}
