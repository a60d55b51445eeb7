// Package reconcile compares extracted fields to a matched record's stored
// fields, reports conflicts, and applies a resolution strategy.
package reconcile

import (
	"strings"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
	"github.com/tirepoint/garage-docs/internal/extract"
)

// Detect reports every field where both the extracted and the stored value
// are present, non-empty, and still differ after field normalization, so
// "ABC-1234" vs "ABC1234" is not a conflict for plates. A field absent on
// either side is fill, not conflict, and is never reported.
func Detect(extracted entity.FieldSet, existing map[constants.FieldKind]string) []entity.Mismatch {
	var out []entity.Mismatch
	for _, field := range constants.AllFields {
		ev, ok := extracted[field]
		if !ok || strings.TrimSpace(ev.Value) == "" {
			continue
		}
		ex, ok := existing[field]
		if !ok || strings.TrimSpace(ex) == "" {
			continue
		}
		if !equalNormalized(field, ev.Value, ex) {
			out = append(out, entity.Mismatch{
				Field:     field,
				Existing:  ex,
				Extracted: ev.Value,
			})
		}
	}
	return out
}

// equalNormalized compares the two sides under the extraction normalization,
// case-insensitively. A side that fails normalization is compared on its
// collapsed raw form instead of being treated as conflicting.
func equalNormalized(field constants.FieldKind, extracted, existing string) bool {
	a := canonical(field, extracted)
	b := canonical(field, existing)
	return strings.EqualFold(a, b)
}

func canonical(field constants.FieldKind, raw string) string {
	if v, err := extract.NormalizeValue(field, raw); err == nil {
		return v
	}
	return strings.Join(strings.Fields(raw), " ")
}
