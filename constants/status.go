package constants

// DocStatus is the canonical processing state for an ingested document.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusUploaded         DocStatus = "UPLOADED"
	DocStatusTextExtracted    DocStatus = "TEXT_EXTRACTED"
	DocStatusFieldsExtracted  DocStatus = "FIELDS_EXTRACTED"
	DocStatusScored           DocStatus = "SCORED"
	DocStatusMatchAttempted   DocStatus = "MATCH_ATTEMPTED"
	DocStatusNoConflict       DocStatus = "NO_CONFLICT"
	DocStatusConflictDetected DocStatus = "CONFLICT_DETECTED"
	DocStatusResolved         DocStatus = "RESOLVED"
	DocStatusFinalized        DocStatus = "FINALIZED" // terminal
	DocStatusFailed           DocStatus = "FAILED"    // terminal
)

// transitions enumerates the legal forward edges of the document lifecycle.
var transitions = map[DocStatus][]DocStatus{
	DocStatusUploaded:         {DocStatusTextExtracted},
	DocStatusTextExtracted:    {DocStatusFieldsExtracted},
	DocStatusFieldsExtracted:  {DocStatusScored},
	DocStatusScored:           {DocStatusMatchAttempted, DocStatusNoConflict, DocStatusFinalized},
	DocStatusMatchAttempted:   {DocStatusNoConflict, DocStatusConflictDetected},
	DocStatusNoConflict:       {DocStatusFinalized},
	DocStatusConflictDetected: {DocStatusResolved},
	DocStatusResolved:         {DocStatusFinalized},
}

// DocStatusNames returns every lifecycle status as a plain string, for
// enum validators.
func DocStatusNames() []string {
	return []string{
		string(DocStatusUploaded),
		string(DocStatusTextExtracted),
		string(DocStatusFieldsExtracted),
		string(DocStatusScored),
		string(DocStatusMatchAttempted),
		string(DocStatusNoConflict),
		string(DocStatusConflictDetected),
		string(DocStatusResolved),
		string(DocStatusFinalized),
		string(DocStatusFailed),
	}
}

// Terminal reports whether the state has no outgoing edges. A new upload
// starts a fresh lifecycle; there is no path back from FINALIZED.
func (s DocStatus) Terminal() bool {
	return s == DocStatusFinalized || s == DocStatusFailed
}

// CanTransition reports whether moving from s to next is a legal step.
// Failure is reachable from any non-terminal state.
func (s DocStatus) CanTransition(next DocStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == DocStatusFailed {
		return true
	}
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
