package entity

import "github.com/tirepoint/garage-docs/constants"

// TextSource tags where raw document text came from.
type TextSource string

const (
	SourceTextLayer TextSource = "TEXT_LAYER"
	SourceOCR       TextSource = "OCR"
)

// ExtractedValue is one extracted field value plus its provenance: the
// priority of the rule that matched, kept for debugging and audit.
type ExtractedValue struct {
	Value        string `json:"value"`
	RulePriority int    `json:"matched_rule_priority"`
}

// FieldSet maps field kinds to their extracted values. Absent fields are
// simply missing keys; absence is never an error.
type FieldSet map[constants.FieldKind]ExtractedValue

// Values flattens the set to plain strings, dropping provenance.
func (fs FieldSet) Values() map[constants.FieldKind]string {
	out := make(map[constants.FieldKind]string, len(fs))
	for k, v := range fs {
		out[k] = v.Value
	}
	return out
}

// ExtractionResult is the immutable outcome of one extraction run over a
// document's raw text. It is created once per ingestion and owned by the
// caller from then on.
type ExtractionResult struct {
	RawText    string     `json:"raw_text"`
	Fields     FieldSet   `json:"fields"`
	Confidence int        `json:"confidence"`
	Source     TextSource `json:"source_kind"`
}
