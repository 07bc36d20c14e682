package retrieval

import (
	"fmt"
	"strings"

	"github.com/ragmill/ragmill/internal/models"
)

// Sentinel markers delimiting the serialized retrieval context, so
// downstream prompt assembly can locate the injected block.
const (
	ContextHeader = "----- RETRIEVED CONTEXT -----"
	ContextFooter = "----- END RETRIEVED CONTEXT -----"
)

// FormatContext serializes ranked results into the deterministic block fed
// to a language model: header marker, one section per result labeled with
// its 1-based rank and similarity percentage, footer marker. No results
// yields an empty string with no markers.
func FormatContext(results []*models.RetrievedChunk) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(ContextHeader)
	b.WriteString("\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] (%.1f%% match)\n%s\n\n", i+1, r.Similarity*100, r.Chunk.Content)
	}
	b.WriteString(ContextFooter)
	return b.String()
}
