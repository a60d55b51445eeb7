package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

func extracted(pairs map[constants.FieldKind]string) entity.FieldSet {
	fs := make(entity.FieldSet, len(pairs))
	for k, v := range pairs {
		fs[k] = entity.ExtractedValue{Value: v, RulePriority: 10}
	}
	return fs
}

func TestDetectReportsDifferingPhone(t *testing.T) {
	mismatches := Detect(
		extracted(map[constants.FieldKind]string{constants.FieldCustomerPhone: "0712345678"}),
		map[constants.FieldKind]string{constants.FieldCustomerPhone: "0765432109"},
	)

	require.Len(t, mismatches, 1)
	assert.Equal(t, constants.FieldCustomerPhone, mismatches[0].Field)
	assert.Equal(t, "0765432109", mismatches[0].Existing)
	assert.Equal(t, "0712345678", mismatches[0].Extracted)
}

func TestDetectAbsentSideIsFillNotConflict(t *testing.T) {
	// extracted has email, record does not: no mismatch
	mismatches := Detect(
		extracted(map[constants.FieldKind]string{constants.FieldCustomerEmail: "jane@example.com"}),
		map[constants.FieldKind]string{constants.FieldCustomerPhone: "0712345678"},
	)
	assert.Empty(t, mismatches)

	// record has phone, extraction does not: also no mismatch
	mismatches = Detect(
		extracted(map[constants.FieldKind]string{}),
		map[constants.FieldKind]string{constants.FieldCustomerPhone: "0712345678"},
	)
	assert.Empty(t, mismatches)
}

func TestDetectNormalizesBeforeComparing(t *testing.T) {
	mismatches := Detect(
		extracted(map[constants.FieldKind]string{constants.FieldPlateNumber: "ABC1234"}),
		map[constants.FieldKind]string{constants.FieldPlateNumber: "abc-1234"},
	)
	assert.Empty(t, mismatches)

	mismatches = Detect(
		extracted(map[constants.FieldKind]string{constants.FieldAmount: "50000.00"}),
		map[constants.FieldKind]string{constants.FieldAmount: "50,000"},
	)
	assert.Empty(t, mismatches)
}

func TestDetectComparesCaseInsensitively(t *testing.T) {
	mismatches := Detect(
		extracted(map[constants.FieldKind]string{constants.FieldVehicleMake: "TOYOTA"}),
		map[constants.FieldKind]string{constants.FieldVehicleMake: "Toyota"},
	)
	assert.Empty(t, mismatches)
}

func TestDetectEqualSidesNeverConflict(t *testing.T) {
	fields := map[constants.FieldKind]string{
		constants.FieldPlateNumber:   "ABC1234",
		constants.FieldCustomerPhone: "0712345678",
	}
	assert.Empty(t, Detect(extracted(fields), fields))
}

func TestResolveKeepExisting(t *testing.T) {
	mismatches := []entity.Mismatch{
		{Field: constants.FieldCustomerPhone, Existing: "0765432109", Extracted: "0712345678"},
	}

	out, err := Resolve(mismatches, entity.KeepExisting, nil)
	require.NoError(t, err)
	assert.Equal(t, map[constants.FieldKind]string{
		constants.FieldCustomerPhone: "0765432109",
	}, out)
}

func TestResolveOverride(t *testing.T) {
	mismatches := []entity.Mismatch{
		{Field: constants.FieldCustomerPhone, Existing: "0765432109", Extracted: "0712345678"},
	}

	out, err := Resolve(mismatches, entity.Override, nil)
	require.NoError(t, err)
	assert.Equal(t, map[constants.FieldKind]string{
		constants.FieldCustomerPhone: "0712345678",
	}, out)
}

func TestResolveMergeTakesPerFieldChoices(t *testing.T) {
	mismatches := []entity.Mismatch{
		{Field: constants.FieldCustomerPhone, Existing: "0765432109", Extracted: "0712345678"},
		{Field: constants.FieldCustomerEmail, Existing: "old@shop.tz", Extracted: "new@shop.tz"},
	}
	choices := map[constants.FieldKind]string{
		constants.FieldCustomerPhone: "0712345678", // take extracted
		constants.FieldCustomerEmail: "old@shop.tz", // keep stored
	}

	out, err := Resolve(mismatches, entity.Merge, choices)
	require.NoError(t, err)
	assert.Equal(t, choices, out)
}

func TestResolveMergeWithMissingChoicesFails(t *testing.T) {
	mismatches := []entity.Mismatch{
		{Field: constants.FieldCustomerPhone, Existing: "a", Extracted: "b"},
		{Field: constants.FieldCustomerEmail, Existing: "c", Extracted: "d"},
	}

	_, err := Resolve(mismatches, entity.Merge, map[constants.FieldKind]string{
		constants.FieldCustomerPhone: "b",
	})
	require.Error(t, err)
	var incomplete *IncompleteMergeError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []constants.FieldKind{constants.FieldCustomerEmail}, incomplete.Missing)
}

func TestResolveUnknownStrategyFails(t *testing.T) {
	_, err := Resolve(nil, entity.ResolutionStrategy("split_difference"), nil)
	assert.Error(t, err)
}

func TestResolveNoMismatchesIsEmpty(t *testing.T) {
	out, err := Resolve(nil, entity.KeepExisting, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
