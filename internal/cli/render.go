// Package cli renders command output for ragmill.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ragmill/ragmill/internal/models"
	"github.com/ragmill/ragmill/pkg/utils"
)

// OutputFormat selects how command output is rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// snippetLen bounds chunk content shown in text output.
const snippetLen = 200

// WriteRetrieved writes a retrieval response to w in the given format.
// JSON carries the full response including the assembled context block;
// text shows the ranked chunks with truncated content.
func WriteRetrieved(w io.Writer, rc *models.RetrievedContext, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rc)
	default:
		writeRetrievedText(w, rc)
		return nil
	}
}

func writeRetrievedText(w io.Writer, rc *models.RetrievedContext) {
	fmt.Fprintf(w, "\nFound %d chunks in %dms\n\n", len(rc.Results), rc.QueryTime)
	for _, res := range rc.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Similarity: %.4f\n", res.Rank, res.Similarity)
		fmt.Fprintf(w, "Document: %s | Chunk: %s\n", res.Chunk.DocumentID, res.Chunk.ID)
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(res.Chunk.Content, snippetLen))
		fmt.Fprintln(w)
	}
}

// WriteDocuments writes the document listing to w in the given format.
func WriteDocuments(w io.Writer, docs []*models.Document, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	default:
		writeDocumentsText(w, docs)
		return nil
	}
}

func writeDocumentsText(w io.Writer, docs []*models.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents.")
		return
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s  %-32s  %4d chunks  %8d bytes  %s\n",
			d.ID, d.Name, d.ChunkCount, d.SizeBytes, d.UploadedAt.Format(time.RFC3339))
	}
}

// WriteModels writes the available model names to w in the given format.
func WriteModels(w io.Writer, names []string, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]string{"models": names})
	default:
		if len(names) == 0 {
			fmt.Fprintln(w, "No models installed.")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(w, name)
		}
		return nil
	}
}
