// Package service implements the fetch and log sync pipeline
package service

import (
	"context"

	gh "tally/internal/adapters/github"
	"tally/internal/adapters/ledger"
	"tally/internal/modkit"
	"tally/internal/modkit/repokit"

	dom "tally/internal/services/sync/domain"
	srepo "tally/internal/services/sync/repo"
)

// Fetcher lists pull requests for one repository
type Fetcher interface {
	ListPullRequests(ctx context.Context, owner, name string) ([]gh.PullRequest, error)
	RepoByFullName(ctx context.Context, owner, name string) (gh.Repo, error)
}

// StatusLedger records work item statuses on the contract
type StatusLedger interface {
	LogStatus(ctx context.Context, su ledger.StatusUpdate) (ledger.TxRef, error)
}

// Config controls the sync batch
type Config struct {
	Concurrency int
	TokensCSV   string
}

// Svc implements domain.SyncPort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[srepo.Storage]
	repo   srepo.Storage

	gh     Fetcher
	ledger StatusLedger
	cfg    Config
	deps   modkit.Deps
}

// StaleWorkItems implements domain.SyncPort
func (s *Svc) StaleWorkItems(ctx context.Context, olderThanDays int) ([]dom.WorkItem, error) {
	if olderThanDays <= 0 {
		return nil, nil
	}
	return s.repo.Stale(ctx, olderThanDays)
}

// New constructs the service
func New(deps modkit.Deps, fetcher Fetcher, led StatusLedger, cfg Config) *Svc {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	b := srepo.NewPG()
	return &Svc{
		db:     deps.PG,
		binder: b,
		repo:   b.Bind(deps.PG),
		gh:     fetcher,
		ledger: led,
		cfg:    cfg,
		deps:   deps,
	}
}
