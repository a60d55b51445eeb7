// Package match links a document's extracted identity fields to existing
// customer/vehicle records through the external persistence layer.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
	"github.com/tirepoint/garage-docs/internal/extract"
)

// PersistenceLookup is the read interface onto the external record store.
// Implementations return (nil, nil) when no record exists; an error means the
// lookup itself failed and is surfaced to the caller unchanged.
type PersistenceLookup interface {
	FindByPlate(ctx context.Context, plate string) (*entity.Record, error)
	FindByPhone(ctx context.Context, phone string) (*entity.Record, error)
}

// Candidate pairs a match candidate with the record it points at, so
// reconciliation can compare stored fields without a second lookup.
type Candidate struct {
	entity.MatchCandidate
	Record *entity.Record
}

// Match scores per identity basis. An exact plate hit outranks a phone hit;
// when both point at the same record the score caps at the plate score
// instead of summing, to avoid over-counting one identity.
const (
	plateScore = 1.0
	phoneScore = 0.8
)

// Matcher holds no mutable state and is safe to call from any number of
// concurrent pipelines; bounding in-flight lookups is the caller's job.
type Matcher struct {
	logger *slog.Logger
	lookup PersistenceLookup
}

func NewMatcher(lookup PersistenceLookup, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger, lookup: lookup}
}

// FindCandidates looks up existing records by normalized plate and phone and
// ranks them highest score first, most-recently-updated first on ties. An
// absent input skips that lookup; both absent yields an empty, non-error
// result. If plate and phone match different records, both candidates are
// returned; choosing between them is deferred to the caller.
func (m *Matcher) FindCandidates(ctx context.Context, plate, phone string) ([]Candidate, error) {
	var out []Candidate

	if p, err := extract.NormalizeValue(constants.FieldPlateNumber, plate); plate != "" && err == nil {
		rec, err := m.lookup.FindByPlate(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("find by plate: %w", err)
		}
		if rec != nil {
			out = append(out, Candidate{
				MatchCandidate: entity.MatchCandidate{
					RecordID:  rec.ID,
					Kind:      rec.Kind,
					Basis:     entity.BasisPlate,
					Score:     plateScore,
					UpdatedAt: rec.UpdatedAt,
				},
				Record: rec,
			})
		}
	}

	if p, err := extract.NormalizeValue(constants.FieldCustomerPhone, phone); phone != "" && err == nil {
		rec, err := m.lookup.FindByPhone(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("find by phone: %w", err)
		}
		if rec != nil {
			if same := sameRecord(out, rec); !same {
				out = append(out, Candidate{
					MatchCandidate: entity.MatchCandidate{
						RecordID:  rec.ID,
						Kind:      rec.Kind,
						Basis:     entity.BasisPhone,
						Score:     phoneScore,
						UpdatedAt: rec.UpdatedAt,
					},
					Record: rec,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	m.logger.Debug("match candidates ranked", "count", len(out))
	return out, nil
}

// MatchFields pulls the identity fields out of an extraction result and runs
// FindCandidates with them.
func (m *Matcher) MatchFields(ctx context.Context, fields entity.FieldSet) ([]Candidate, error) {
	var plate, phone string
	if v, ok := fields[constants.FieldPlateNumber]; ok {
		plate = v.Value
	}
	if v, ok := fields[constants.FieldCustomerPhone]; ok {
		phone = v.Value
	}
	if plate == "" && phone == "" {
		return nil, nil
	}
	return m.FindCandidates(ctx, plate, phone)
}

// sameRecord reports whether rec is already among the candidates. Both bases
// hitting one record keeps the single plate-based candidate at its capped
// score.
func sameRecord(cands []Candidate, rec *entity.Record) bool {
	for _, c := range cands {
		if c.RecordID == rec.ID {
			return true
		}
	}
	return false
}
