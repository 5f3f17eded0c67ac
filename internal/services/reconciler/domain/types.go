// Package domain defines reconciler types and ports
package domain

import (
	"time"

	"tally/internal/core/contribution"
)

// TxRef is the ledger transaction reference attached to a confirmed transition
type TxRef string

// QueuedAction is one pending transition waiting for reconciliation
type QueuedAction struct {
	Act        contribution.Action
	EnqueuedAt time.Time
}

// Outcome labels how a queued action ended
type Outcome string

// Terminal outcomes recorded in the audit trail
const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeRejected  Outcome = "rejected"
	OutcomeIllegal   Outcome = "illegal"
	OutcomeGaveUp    Outcome = "gave_up"

	// OutcomeUnconfirmed flags cached rows found without a tx ref at startup
	OutcomeUnconfirmed Outcome = "unconfirmed"
)

// FailureReport describes an action that ended without confirmation
type FailureReport struct {
	ContributionID contribution.ID
	Kind           contribution.Kind
	Outcome        Outcome
	Reason         string
	At             time.Time
}
