package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

func fieldSet(fields ...constants.FieldKind) entity.FieldSet {
	fs := make(entity.FieldSet, len(fields))
	for _, f := range fields {
		fs[f] = entity.ExtractedValue{Value: "x", RulePriority: 10}
	}
	return fs
}

func TestScoreSumsPresentWeightedFields(t *testing.T) {
	s := NewScorer(nil)

	// plate 30 + phone 20 + amount 15
	got := s.Score(fieldSet(
		constants.FieldPlateNumber,
		constants.FieldCustomerPhone,
		constants.FieldAmount,
	))
	assert.Equal(t, 65, got)
}

func TestScoreEmptyFieldSetIsZero(t *testing.T) {
	s := NewScorer(nil)
	assert.Equal(t, 0, s.Score(entity.FieldSet{}))
}

func TestScoreIgnoresUnweightedFields(t *testing.T) {
	s := NewScorer(nil)

	got := s.Score(fieldSet(
		constants.FieldServiceDescription,
		constants.FieldItemName,
		constants.FieldBrand,
		constants.FieldQuantity,
	))
	assert.Equal(t, 0, got)
}

func TestScoreIgnoresEmptyValues(t *testing.T) {
	s := NewScorer(nil)

	fs := entity.FieldSet{
		constants.FieldPlateNumber: {Value: "", RulePriority: 10},
		constants.FieldAmount:      {Value: "50000.00", RulePriority: 10},
	}
	assert.Equal(t, 15, s.Score(fs))
}

func TestScoreIsMonotonicInFieldPresence(t *testing.T) {
	s := NewScorer(nil)

	partial := s.Score(fieldSet(constants.FieldPlateNumber))
	fuller := s.Score(fieldSet(constants.FieldPlateNumber, constants.FieldCustomerEmail))
	assert.Greater(t, fuller, partial)
}

func TestScoreAllDefaultFieldsReachesExactlyOneHundred(t *testing.T) {
	s := NewScorer(nil)

	got := s.Score(fieldSet(
		constants.FieldPlateNumber,
		constants.FieldCustomerPhone,
		constants.FieldCustomerEmail,
		constants.FieldVehicleMake,
		constants.FieldAmount,
	))
	assert.Equal(t, 100, got)
}

func TestScoreCapsAtOneHundredWithCustomWeights(t *testing.T) {
	s := NewScorer(Weights{
		constants.FieldPlateNumber:   80,
		constants.FieldCustomerPhone: 50,
	})

	got := s.Score(fieldSet(constants.FieldPlateNumber, constants.FieldCustomerPhone))
	assert.Equal(t, 100, got)
}
