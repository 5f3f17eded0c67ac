package domain

import "context"

// SyncPort runs one fetch and log batch
type SyncPort interface {
	FetchAndLog(ctx context.Context, f Filter) (BatchReport, error)

	// StaleWorkItems lists cached items whose last ledger update is older
	// than the cutoff, for operator follow-up
	StaleWorkItems(ctx context.Context, olderThanDays int) ([]WorkItem, error)
}
