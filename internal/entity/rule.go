package entity

import (
	"time"

	"github.com/tirepoint/garage-docs/constants"
)

// PatternRule is a single extraction recipe: a regex-like pattern targeting
// one field kind. Rules for the same field are tried in ascending priority
// order (lower first); ties keep insertion order. Rules are immutable during
// an extraction run and replaced only as a whole snapshot.
type PatternRule struct {
	ID           int                 `json:"id"`
	Name         string              `json:"name"`
	Field        constants.FieldKind `json:"field"`
	Pattern      string              `json:"pattern"`
	CaptureGroup int                 `json:"capture_group"`
	Priority     int                 `json:"priority"`
	Enabled      bool                `json:"enabled"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
