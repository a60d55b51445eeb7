package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/tirepoint/garage-docs/constants"
)

// Document is one ingested file moving through the extraction lifecycle.
type Document struct {
	ID           uuid.UUID           `json:"id"`
	SourcePath   string              `json:"source_path"`
	Format       string              `json:"format"`
	Status       constants.DocStatus `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ExtractionRecord is a stored extraction joined with its document, as
// listed for reporting and export.
type ExtractionRecord struct {
	DocumentID uuid.UUID                      `json:"document_id"`
	SourcePath string                         `json:"source_path"`
	Status     constants.DocStatus            `json:"status"`
	Confidence int                            `json:"confidence"`
	Source     TextSource                     `json:"source_kind"`
	Fields     map[constants.FieldKind]string `json:"fields"`
	CreatedAt  time.Time                      `json:"created_at"`
}
