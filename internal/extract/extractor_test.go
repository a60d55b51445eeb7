package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/rules"
)

func defaultExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(rules.NewStore(rules.DefaultRules(), nil), nil)
}

func TestExtractInvoiceLine(t *testing.T) {
	e := defaultExtractor(t)

	fields := e.Extract("Plate: ABC-1234 Phone: 0712345678 Total: Tsh 50,000.00")

	require.Contains(t, fields, constants.FieldPlateNumber)
	assert.Equal(t, "ABC1234", fields[constants.FieldPlateNumber].Value)
	require.Contains(t, fields, constants.FieldCustomerPhone)
	assert.Equal(t, "0712345678", fields[constants.FieldCustomerPhone].Value)
	require.Contains(t, fields, constants.FieldAmount)
	assert.Equal(t, "50000.00", fields[constants.FieldAmount].Value)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := defaultExtractor(t)
	text := "Customer: Jane Mwangi\nPlate: ABC-1234\nService: Wheel alignment\nTotal: 35,000.00"

	first := e.Extract(text)
	second := e.Extract(text)

	assert.Equal(t, first, second)
}

func TestExtractUnmatchedFieldsAreAbsent(t *testing.T) {
	e := defaultExtractor(t)

	fields := e.Extract("no structured content here at all")

	assert.NotContains(t, fields, constants.FieldPlateNumber)
	assert.NotContains(t, fields, constants.FieldCustomerPhone)
	assert.NotContains(t, fields, constants.FieldAmount)
}

func TestExtractHandlesHostileInputWithoutPanic(t *testing.T) {
	e := defaultExtractor(t)

	inputs := []string{
		"",
		"\x00\x01\x02",
		strings.Repeat("A", 1<<16),
		"Total: Total: Total:",
		"<<<>>>((()))[[[]]]",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { e.Extract(in) })
	}
}

func TestExtractNegativeAmountIsDiscardedWithoutFallthrough(t *testing.T) {
	e := defaultExtractor(t)

	// The labeled rule matches "-20.00" first; normalization rejects it and
	// the lower-priority bare-decimal rule must not be retried.
	fields := e.Extract("Total: -20.00")

	assert.NotContains(t, fields, constants.FieldAmount)
}

func TestExtractFirstMatchingRuleWins(t *testing.T) {
	e := defaultExtractor(t)

	// Both the labeled (priority 10) and bare-decimal (priority 100) amount
	// rules can match; the labeled one is authoritative.
	fields := e.Extract("Deposit 1,000.00 paid. Total: 99,500.00")

	require.Contains(t, fields, constants.FieldAmount)
	assert.Equal(t, "99500.00", fields[constants.FieldAmount].Value)
	assert.Equal(t, 10, fields[constants.FieldAmount].RulePriority)
}

func TestExtractNormalizesUnicodeBeforeMatching(t *testing.T) {
	e := defaultExtractor(t)

	// fullwidth digits from a sloppy OCR pass
	fields := e.Extract("Phone: ０７１２３４５６７８")

	require.Contains(t, fields, constants.FieldCustomerPhone)
	assert.Equal(t, "0712345678", fields[constants.FieldCustomerPhone].Value)
}

func TestExtractAllAccumulatesCandidates(t *testing.T) {
	e := defaultExtractor(t)

	all := e.ExtractAll("Deposit 1,000.00 paid. Total: 99,500.00")

	amounts := all[constants.FieldAmount]
	require.Len(t, amounts, 2)
	assert.Equal(t, "99500.00", amounts[0].Value)
	assert.Equal(t, "1000.00", amounts[1].Value)
}

func TestExtractEmptyRuleSetYieldsNoFields(t *testing.T) {
	e := New(rules.NewStore(nil, nil), nil)

	fields := e.Extract("Plate: ABC-1234 Total: 50,000.00")

	assert.Empty(t, fields)
}
