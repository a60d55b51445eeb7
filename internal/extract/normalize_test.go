package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tirepoint/garage-docs/constants"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"50,000.00", "50000.00"},
		{"Tsh 50,000", "50000.00"},
		{"$1,234.5", "1234.50"},
		{"120", "120.00"},
	}
	for _, tc := range tests {
		got, err := NormalizeValue(constants.FieldAmount, tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestNormalizeAmountRejectsNonPositive(t *testing.T) {
	for _, raw := range []string{"-20.00", "0.00", "0", "Tsh", ""} {
		_, err := NormalizeValue(constants.FieldAmount, raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidNormalization)
	}
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizeValue(constants.FieldCustomerPhone, "+255 712-345-678")
	require.NoError(t, err)
	assert.Equal(t, "+255712345678", got)

	got, err = NormalizeValue(constants.FieldCustomerPhone, "0712 345 678")
	require.NoError(t, err)
	assert.Equal(t, "0712345678", got)

	// '+' only counts at the front
	got, err = NormalizeValue(constants.FieldCustomerPhone, "0712+345678")
	require.NoError(t, err)
	assert.Equal(t, "0712345678", got)

	_, err = NormalizeValue(constants.FieldCustomerPhone, "call me")
	assert.ErrorIs(t, err, ErrInvalidNormalization)
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"ABC-1234", "ABC1234"},
		{"abc 1234", "ABC1234"},
		{"T 123 ABC", "T123ABC"},
	}
	for _, tc := range tests {
		got, err := NormalizeValue(constants.FieldPlateNumber, tc.raw)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := NormalizeValue(constants.FieldPlateNumber, "---")
	assert.ErrorIs(t, err, ErrInvalidNormalization)
}

func TestNormalizeQuantity(t *testing.T) {
	got, err := NormalizeValue(constants.FieldQuantity, " 4 ")
	require.NoError(t, err)
	assert.Equal(t, "4", got)

	for _, raw := range []string{"0", "-2", "four", ""} {
		_, err := NormalizeValue(constants.FieldQuantity, raw)
		assert.ErrorIs(t, err, ErrInvalidNormalization, raw)
	}
}

func TestNormalizeGenericCollapsesWhitespace(t *testing.T) {
	got, err := NormalizeValue(constants.FieldCustomerName, "  John   A.  Doe ")
	require.NoError(t, err)
	assert.Equal(t, "John A. Doe", got)
}

func TestNormalizeTextAppliesNFKC(t *testing.T) {
	// fullwidth digits fold to ASCII under NFKC
	assert.Equal(t, "0712345678", NormalizeText("０７１２３４５６７８"))
}
