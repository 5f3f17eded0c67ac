package domain

import (
	"context"

	"tally/internal/core/contribution"
)

// EnqueuePort accepts transitions for asynchronous reconciliation
type EnqueuePort interface {
	Enqueue(ctx context.Context, act contribution.Action) error
}

// WorkerPort drives the reconciliation loop
type WorkerPort interface {
	Run(ctx context.Context) error
	Recover(ctx context.Context) (int, error)
}

// LedgerPort submits one transition to the ledger.
// Implementations make a single attempt; the worker owns retries
type LedgerPort interface {
	Submit(ctx context.Context, act contribution.Action) (TxRef, error)
}
