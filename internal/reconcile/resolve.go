package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

// IncompleteMergeError reports the mismatched fields a merge call left
// without a choice. Fatal to the resolve call only; the caller supplies the
// missing choices and retries.
type IncompleteMergeError struct {
	Missing []constants.FieldKind
}

func (e *IncompleteMergeError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("merge choices missing for fields: %s", strings.Join(names, ", "))
}

// Resolve produces the final value for every mismatched field under the
// given strategy. Fields outside the mismatch set are untouched: overlaying
// this onto the full field set is the caller's responsibility.
func Resolve(
	mismatches []entity.Mismatch,
	strategy entity.ResolutionStrategy,
	mergeChoices map[constants.FieldKind]string,
) (map[constants.FieldKind]string, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("unknown resolution strategy %q", strategy)
	}

	if strategy == entity.Merge {
		var missing []constants.FieldKind
		for _, mm := range mismatches {
			if _, ok := mergeChoices[mm.Field]; !ok {
				missing = append(missing, mm.Field)
			}
		}
		if len(missing) > 0 {
			sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
			return nil, &IncompleteMergeError{Missing: missing}
		}
	}

	out := make(map[constants.FieldKind]string, len(mismatches))
	for _, mm := range mismatches {
		switch strategy {
		case entity.KeepExisting:
			out[mm.Field] = mm.Existing
		case entity.Override:
			out[mm.Field] = mm.Extracted
		case entity.Merge:
			out[mm.Field] = mergeChoices[mm.Field]
		}
	}
	return out, nil
}
