package e2e

import (
	"testing"

	"github.com/ragmill/ragmill/internal/extract"
)

// The file-based e2e test relies on extraction returning the written text
// byte for byte, so this asserts equality rather than containment.
func TestWriteMinimalFile_AllExtensionsRoundTrip(t *testing.T) {
	e := extract.NewExtractor()
	sample := "Exact content survives extraction for ranking & retrieval."
	for _, ext := range SupportedFileExtensions {
		t.Run(ext, func(t *testing.T) {
			content, err := WriteMinimalFile(ext, sample)
			if err != nil {
				t.Fatalf("WriteMinimalFile: %v", err)
			}
			if len(content) == 0 {
				t.Fatal("empty content")
			}
			got, err := e.ExtractBytes(content, ext)
			if err != nil {
				t.Fatalf("ExtractBytes: %v", err)
			}
			if got != sample {
				t.Errorf("extracted %q, want %q", got, sample)
			}
		})
	}
}
