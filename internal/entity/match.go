package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/tirepoint/garage-docs/constants"
)

// RecordKind names the type of an existing record a document can link to.
type RecordKind string

const (
	RecordCustomer RecordKind = "customer"
	RecordVehicle  RecordKind = "vehicle"
	RecordOrder    RecordKind = "order"
)

// MatchBasis names the identity field a candidate was found by.
type MatchBasis string

const (
	BasisPlate MatchBasis = "plate"
	BasisPhone MatchBasis = "phone"
)

// Record is an existing customer/vehicle/order row as seen by the matcher,
// reduced to its identity plus the stored field values reconciliation
// compares against.
type Record struct {
	ID        uuid.UUID                        `json:"id"`
	Kind      RecordKind                       `json:"kind"`
	Fields    map[constants.FieldKind]string   `json:"fields"`
	UpdatedAt time.Time                        `json:"updated_at"`
}

// MatchCandidate ties a document to a possible existing record. Transient:
// produced per lookup call, never persisted by the engine.
type MatchCandidate struct {
	RecordID  uuid.UUID  `json:"record_id"`
	Kind      RecordKind `json:"record_kind"`
	Basis     MatchBasis `json:"match_basis"`
	Score     float64    `json:"match_score"`
	UpdatedAt time.Time  `json:"-"`
}
