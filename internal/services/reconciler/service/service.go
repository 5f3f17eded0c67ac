// Package service implements the reconciliation worker and enqueue service
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tally/internal/core/contribution"
	"tally/internal/modkit"
	"tally/internal/modkit/repokit"
	"tally/internal/platform/store"

	dom "tally/internal/services/reconciler/domain"
	"tally/internal/services/reconciler/queue"
	rrepo "tally/internal/services/reconciler/repo"
)

// Service implements both worker+enqueue ports
type Service interface {
	dom.WorkerPort
	dom.EnqueuePort
}

// Config controls the worker
type Config struct {
	TickMs      int
	MaxAttempts int
	RetryBaseMs int
}

// Svc implements the reconciliation worker and enqueue service
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[rrepo.Storage]
	repo   rrepo.Storage

	q      *queue.Queue
	ledger dom.LedgerPort
	audit  store.Clickhouse
	cfg    Config
	deps   modkit.Deps

	// workerID tags audit rows so one process's outcomes are groupable
	workerID string

	now   func() time.Time
	sleep func(time.Duration)
}

// New constructs the service
func New(deps modkit.Deps, led dom.LedgerPort, cfg Config) *Svc {
	if cfg.TickMs <= 0 {
		cfg.TickMs = 500
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.RetryBaseMs <= 0 {
		cfg.RetryBaseMs = 500
	}
	b := rrepo.NewPG()
	return &Svc{
		db:       deps.PG,
		binder:   b,
		repo:     b.Bind(deps.PG),
		q:        queue.New(),
		ledger:   led,
		audit:    deps.CH,
		cfg:      cfg,
		deps:     deps,
		workerID: uuid.NewString(),
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Enqueue implements domain.EnqueuePort.
// The transition is checked against current cached state before queueing
// so callers get illegal transitions back synchronously
func (s *Svc) Enqueue(ctx context.Context, act contribution.Action) error {
	cur, err := s.repo.Get(ctx, act.ContributionID())
	if err != nil {
		return err
	}
	if _, err := contribution.Apply(cur, act); err != nil {
		return err
	}
	s.q.Push(dom.QueuedAction{Act: act, EnqueuedAt: s.now()})
	return nil
}

// Pending reports the queue depth
func (s *Svc) Pending() int { return s.q.Len() }

func (s *Svc) backoff(attempt int) time.Duration {
	ms := int64(s.cfg.RetryBaseMs)
	ms = ms << uint(attempt)
	ceiling := int64(30_000)
	if ms > ceiling {
		ms = ceiling
	}
	return time.Duration(ms) * time.Millisecond
}
