package entity

import "github.com/tirepoint/garage-docs/constants"

// Mismatch is a field where the extracted and stored values disagree after
// normalization. Transient: produced per reconciliation call.
type Mismatch struct {
	Field     constants.FieldKind `json:"field"`
	Existing  string              `json:"existing_value"`
	Extracted string              `json:"extracted_value"`
}

// ResolutionStrategy is the closed set of rules for picking a final value
// when extracted and stored data conflict.
type ResolutionStrategy string

const (
	// KeepExisting keeps the stored value for every mismatched field.
	KeepExisting ResolutionStrategy = "keep_existing"
	// Override takes the extracted value for every mismatched field.
	Override ResolutionStrategy = "override"
	// Merge takes a caller-supplied choice per mismatched field; the choice
	// map must cover every mismatch.
	Merge ResolutionStrategy = "merge"
)

// Valid reports whether s is one of the three known strategies.
func (s ResolutionStrategy) Valid() bool {
	switch s {
	case KeepExisting, Override, Merge:
		return true
	}
	return false
}
