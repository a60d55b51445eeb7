// Package textsource produces plain text from uploaded document files. The
// extraction engine only consumes the Source interface; the adapters here
// (PDF text layer, tesseract OCR, plain text) are replaceable collaborators.
package textsource

import (
	"context"
	"fmt"

	"github.com/tirepoint/garage-docs/internal/entity"
)

// Result is the raw text of one document plus its source tag.
type Result struct {
	Text   string
	Source entity.TextSource
	Pages  int
}

// Source is Stage 1: file -> text.
type Source interface {
	ExtractText(ctx context.Context, path string) (Result, error)
}

// UnreadableDocumentError means the text producer failed for this document.
// Fatal for the document only: no partial extraction is attempted and the
// caller reports it to the user.
type UnreadableDocumentError struct {
	Path  string
	Cause error
}

func (e *UnreadableDocumentError) Error() string {
	return fmt.Sprintf("unreadable document %s: %v", e.Path, e.Cause)
}

func (e *UnreadableDocumentError) Unwrap() error {
	return e.Cause
}

func unreadable(path string, cause error) error {
	return &UnreadableDocumentError{Path: path, Cause: cause}
}
