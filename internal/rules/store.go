// Package rules holds the pattern rule store: the ordered, read-only set of
// extraction rules the field extractor runs against raw document text.
package rules

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync/atomic"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

// Repository supplies the active rule rows, typically from the admin-managed
// table. Implemented by internal/repository for Postgres and sqlite.
type Repository interface {
	ActiveRules(ctx context.Context) ([]entity.PatternRule, error)
}

// ConfigurationError reports a field with zero enabled rules. Callers may
// treat it as "unsupported field" rather than a hard failure.
type ConfigurationError struct {
	Field constants.FieldKind
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no enabled rules configured for field %q", e.Field)
}

// CompiledRule is a pattern rule with its regular expression compiled once at
// snapshot build time.
type CompiledRule struct {
	entity.PatternRule
	Regexp *regexp.Regexp
}

type snapshot struct {
	byField map[constants.FieldKind][]CompiledRule
	version uint64
}

// Store serves rules grouped by field, ordered by ascending priority with
// insertion-order ties. Snapshots are swapped atomically so in-flight
// extractions never observe a half-updated rule set; any number of concurrent
// readers is safe.
type Store struct {
	logger *slog.Logger
	snap   atomic.Pointer[snapshot]
	vers   atomic.Uint64
}

// NewStore compiles the given rules into the initial snapshot. Rules that do
// not compile are skipped with a warning rather than failing the store:
// extraction must degrade, not raise.
func NewStore(rs []entity.PatternRule, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	s.Replace(rs)
	return s
}

// Replace atomically swaps in a new rule snapshot built from rs.
func (s *Store) Replace(rs []entity.PatternRule) {
	byField := make(map[constants.FieldKind][]CompiledRule)
	for _, r := range rs {
		if !r.Enabled {
			continue
		}
		re, err := compile(r)
		if err != nil {
			s.logger.Warn("skipping rule with invalid pattern",
				"rule", r.Name, "field", r.Field, "error", err)
			continue
		}
		byField[r.Field] = append(byField[r.Field], CompiledRule{PatternRule: r, Regexp: re})
	}
	for f := range byField {
		list := byField[f]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Priority < list[j].Priority })
	}

	version := s.vers.Add(1)
	s.snap.Store(&snapshot{byField: byField, version: version})
	s.logger.Info("rule snapshot installed", "version", version, "fields", len(byField))
}

// Reload pulls the current active rules from repo and installs them as a new
// snapshot. Concurrent extractions keep using the previous snapshot until the
// swap completes.
func (s *Store) Reload(ctx context.Context, repo Repository) error {
	rs, err := repo.ActiveRules(ctx)
	if err != nil {
		return fmt.Errorf("load active rules: %w", err)
	}
	s.Replace(rs)
	return nil
}

// RulesFor returns the enabled rules for field, priority ascending. Returns a
// ConfigurationError when the field has no enabled rules.
func (s *Store) RulesFor(field constants.FieldKind) ([]CompiledRule, error) {
	snap := s.snap.Load()
	list := snap.byField[field]
	if len(list) == 0 {
		return nil, &ConfigurationError{Field: field}
	}
	return list, nil
}

// Version identifies the installed snapshot, for logging and audit.
func (s *Store) Version() uint64 {
	return s.snap.Load().version
}

// compile builds the rule's regexp. Matching is case-insensitive for every
// field except plate_number, whose patterns distinguish case until the value
// is normalized.
func compile(r entity.PatternRule) (*regexp.Regexp, error) {
	flags := "(?im)"
	if r.Field == constants.FieldPlateNumber {
		flags = "(?m)"
	}
	return regexp.Compile(flags + r.Pattern)
}
