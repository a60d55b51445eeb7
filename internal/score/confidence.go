// Package score maps a set of extracted fields to a 0-100 confidence value.
package score

import (
	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

// Weights assigns a per-field contribution to the confidence score. Fields
// outside the table are informative but unscored, so noisy free-text fields
// never inflate confidence.
type Weights map[constants.FieldKind]int

// DefaultWeights is the observed production weighting. It is heuristic and
// locale-specific, hence a parameter rather than a constant.
func DefaultWeights() Weights {
	return Weights{
		constants.FieldPlateNumber:   30,
		constants.FieldCustomerPhone: 20,
		constants.FieldCustomerEmail: 20,
		constants.FieldVehicleMake:   15,
		constants.FieldAmount:        15,
	}
}

// Caller-facing interpretation thresholds. The engine only exposes the
// numeric score; labeling is a presentation concern.
const (
	ThresholdLow  = 40
	ThresholdHigh = 70
)

// Scorer is a pure function of field presence: value quality never changes
// the score.
type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) *Scorer {
	if w == nil {
		w = DefaultWeights()
	}
	return &Scorer{weights: w}
}

// Score sums the weights of present fields, capped at 100. Each field
// category counts once regardless of how many candidate values it produced.
func (s *Scorer) Score(fields entity.FieldSet) int {
	total := 0
	for field, weight := range s.weights {
		if v, ok := fields[field]; ok && v.Value != "" {
			total += weight
		}
	}
	if total > 100 {
		total = 100
	}
	return total
}
