// Package modelserver lists the models installed on the local Ollama
// server. The retrieval pipeline never needs this itself; it exists so
// API consumers can check which chat and embedding models are available
// before deciding to route a conversation through retrieval.
package modelserver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// DefaultHost is used when no host is configured.
const DefaultHost = "http://localhost:11434"

// Client queries a local Ollama server for its installed models.
type Client struct {
	client *ollama.Client
}

// NewClient creates a model-listing client for the Ollama server at host
// (DefaultHost when empty).
func NewClient(host string) (*Client, error) {
	if host == "" {
		host = DefaultHost
	}
	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	hc := &http.Client{Timeout: 30 * time.Second}
	return &Client{client: ollama.NewClient(parsed, hc)}, nil
}

// ListModels returns the names of all installed models, sorted so the
// output is stable across calls.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	resp, err := c.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}
