package model

import "time"

// ResolutionOutcome is the terminal state a pending transaction reached.
type ResolutionOutcome string

// Terminal outcomes. Detected is the only non-terminal state and is implied
// by presence in the pending set.
const (
	OutcomeSaved             ResolutionOutcome = "saved"
	OutcomeSavedWithOverride ResolutionOutcome = "saved-with-override-category"
	OutcomeSkipped           ResolutionOutcome = "skipped"
)

// PendingTransaction is a detected-but-unconfirmed transaction awaiting user
// resolution, keyed by the originating message fingerprint.
type PendingTransaction struct {
	DetectedAt  time.Time
	ID          string
	Transaction Transaction
}
