// Package extract turns raw document text into typed candidate field values
// by running the configured pattern rules per field.
package extract

import (
	"errors"
	"log/slog"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
	"github.com/tirepoint/garage-docs/internal/rules"
)

// Extractor applies a rule store snapshot to raw text. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
	store  *rules.Store
}

func New(store *rules.Store, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger, store: store}
}

// Extract runs every field's rules against rawText and returns the first
// successful, normalized value per field. A field whose rules never match is
// simply absent; malformed input degrades to absent fields, never an error.
func (e *Extractor) Extract(rawText string) entity.FieldSet {
	text := NormalizeText(rawText)
	fields := make(entity.FieldSet)

	for _, field := range constants.AllFields {
		if v, ok := e.extractField(text, field); ok {
			fields[field] = v
		}
	}
	return fields
}

// ExtractAll is the accumulate variant: instead of stopping at the first
// matching rule it collects every candidate a field's rules produce, in rule
// priority order. Used for review tooling; Extract is the pipeline path.
func (e *Extractor) ExtractAll(rawText string) map[constants.FieldKind][]entity.ExtractedValue {
	text := NormalizeText(rawText)
	out := make(map[constants.FieldKind][]entity.ExtractedValue)

	for _, field := range constants.AllFields {
		rs, err := e.store.RulesFor(field)
		if err != nil {
			continue
		}
		for _, rule := range rs {
			if v, ok := e.applyRule(text, field, rule); ok {
				out[field] = append(out[field], v)
			}
		}
	}
	return out
}

// extractField walks the field's rules in priority order and stops at the
// first regex match. A match whose captured value fails normalization leaves
// the field absent for this run; lower-priority rules are not retried.
func (e *Extractor) extractField(text string, field constants.FieldKind) (entity.ExtractedValue, bool) {
	rs, err := e.store.RulesFor(field)
	if err != nil {
		var confErr *rules.ConfigurationError
		if errors.As(err, &confErr) {
			e.logger.Debug("field unsupported by rule set", "field", field)
		}
		return entity.ExtractedValue{}, false
	}

	for _, rule := range rs {
		captured, ok := capture(text, rule)
		if !ok {
			continue
		}
		normalized, err := NormalizeValue(field, captured)
		if err != nil {
			e.logger.Warn("discarding extracted value",
				"field", field, "rule", rule.Name, "value", captured, "error", err)
			return entity.ExtractedValue{}, false
		}
		return entity.ExtractedValue{Value: normalized, RulePriority: rule.Priority}, true
	}
	return entity.ExtractedValue{}, false
}

func (e *Extractor) applyRule(text string, field constants.FieldKind, rule rules.CompiledRule) (entity.ExtractedValue, bool) {
	captured, ok := capture(text, rule)
	if !ok {
		return entity.ExtractedValue{}, false
	}
	normalized, err := NormalizeValue(field, captured)
	if err != nil {
		return entity.ExtractedValue{}, false
	}
	return entity.ExtractedValue{Value: normalized, RulePriority: rule.Priority}, true
}

// capture applies one rule and extracts its designated capture group.
func capture(text string, rule rules.CompiledRule) (string, bool) {
	m := rule.Regexp.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	group := rule.CaptureGroup
	if group <= 0 {
		group = 1
	}
	if group >= len(m) {
		return "", false
	}
	if m[group] == "" {
		return "", false
	}
	return m[group], true
}
