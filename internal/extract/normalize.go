package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/tirepoint/garage-docs/constants"
)

// ErrInvalidNormalization marks a captured value that failed field-specific
// normalization (non-numeric amount, empty plate, ...). The field is treated
// as absent for the run; nothing else is aborted.
var ErrInvalidNormalization = errors.New("value failed normalization")

// NormalizeText canonicalizes raw document text (NFKC) before any pattern
// matching, so compatibility characters from OCR or PDF text layers do not
// cause false negatives.
func NormalizeText(raw string) string {
	return norm.NFKC.String(raw)
}

// NormalizeValue applies the field-specific canonical form to a captured
// value. The same normalization is used by the extractor and by mismatch
// detection, so "ABC-1234" and "ABC1234" compare equal for plates.
func NormalizeValue(field constants.FieldKind, raw string) (string, error) {
	switch field {
	case constants.FieldAmount:
		return normalizeAmount(raw)
	case constants.FieldCustomerPhone:
		return normalizePhone(raw)
	case constants.FieldPlateNumber:
		return normalizePlate(raw)
	case constants.FieldQuantity:
		return normalizeQuantity(raw)
	default:
		return normalizeGeneric(raw)
	}
}

// normalizeAmount strips currency symbols and thousands separators, then
// parses a decimal with a 2-digit fraction. Zero or negative amounts are
// rejected as probable extraction misfires.
func normalizeAmount(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return "", fmt.Errorf("amount %q: %w", raw, ErrInvalidNormalization)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return "", fmt.Errorf("amount %q: %w", raw, ErrInvalidNormalization)
	}
	if d.Sign() <= 0 {
		return "", fmt.Errorf("amount %q is not positive: %w", raw, ErrInvalidNormalization)
	}
	return d.StringFixed(2), nil
}

// normalizePhone keeps digits and a leading '+' only.
func normalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || out == "+" {
		return "", fmt.Errorf("phone %q: %w", raw, ErrInvalidNormalization)
	}
	return out, nil
}

// normalizePlate uppercases and drops whitespace, dashes and any other
// separators, leaving the canonical compact form ("ABC-1234" -> "ABC1234").
func normalizePlate(raw string) (string, error) {
	upper := strings.ToUpper(raw)
	var b strings.Builder
	for _, r := range upper {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("plate %q: %w", raw, ErrInvalidNormalization)
	}
	return b.String(), nil
}

func normalizeQuantity(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	n, err := strconv.ParseUint(cleaned, 10, 32)
	if err != nil || n == 0 {
		return "", fmt.Errorf("quantity %q: %w", raw, ErrInvalidNormalization)
	}
	return strconv.FormatUint(n, 10), nil
}

// normalizeGeneric trims and collapses internal whitespace runs.
func normalizeGeneric(raw string) (string, error) {
	out := strings.Join(strings.Fields(raw), " ")
	if out == "" {
		return "", fmt.Errorf("empty value: %w", ErrInvalidNormalization)
	}
	return out, nil
}
