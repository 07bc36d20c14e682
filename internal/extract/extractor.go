// Package extract provides text extraction from document formats.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnreadableFile reports that content yields no usable text: the bytes
// cannot be parsed as the claimed format, or extraction produced only
// whitespace.
var ErrUnreadableFile = errors.New("no usable text")

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Plain text formats
// (.txt, .md, .rst) and unknown extensions are returned as-is after UTF-8
// validation. Parse failures and whitespace-only results wrap
// ErrUnreadableFile.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".xlsx":
		text, err = extractXLSX(content)
	default:
		// .txt, .md, .rst, and anything unrecognized: treat as plain text.
		text, err = extractPlain(content)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: extraction produced no text", ErrUnreadableFile)
	}
	return text, nil
}
