package service

import (
	"context"
	"time"

	"tally/internal/adapters/ledger"
	"tally/internal/core/contribution"
	perr "tally/internal/platform/errors"
	"tally/internal/platform/logger"

	dom "tally/internal/services/reconciler/domain"
)

// Run starts the worker loop to drain the action queue.
// Actions are processed one at a time in arrival order so the ledger
// sees transitions in the order callers issued them
func (s *Svc) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.cfg.TickMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				qa, ok := s.q.PopFront()
				if !ok {
					break
				}
				s.process(ctx, qa)
			}
		}
	}
}

func (s *Svc) process(ctx context.Context, qa dom.QueuedAction) {
	log := logger.Named("reconciler-worker")
	act := qa.Act

	cur, err := s.repo.Get(ctx, act.ContributionID())
	if err != nil {
		// cache read failed; requeue so the action is not lost
		log.Error().Err(err).Str("contribution", string(act.ContributionID())).Msg("cache read failed requeueing")
		s.q.Push(qa)
		return
	}

	next, err := contribution.Apply(cur, act)
	if err != nil {
		s.report(ctx, dom.FailureReport{
			ContributionID: act.ContributionID(),
			Kind:           act.Kind(),
			Outcome:        dom.OutcomeIllegal,
			Reason:         err.Error(),
			At:             s.now(),
		})
		return
	}

	ref, ok := s.submit(ctx, act)
	if !ok {
		return
	}

	s.confirm(ctx, next, act, ref)
}

// submit pushes the action to the ledger with bounded retries on
// transient failures. Rejections are terminal and never retried
func (s *Svc) submit(ctx context.Context, act contribution.Action) (dom.TxRef, bool) {
	log := logger.Named("reconciler-worker")

	for attempt := 0; ; attempt++ {
		ref, err := s.ledger.Submit(ctx, act)
		if err == nil {
			return ref, true
		}

		switch {
		case ledger.IsRejected(err):
			s.report(ctx, dom.FailureReport{
				ContributionID: act.ContributionID(),
				Kind:           act.Kind(),
				Outcome:        dom.OutcomeRejected,
				Reason:         err.Error(),
				At:             s.now(),
			})
			return "", false
		case ledger.IsTransient(err) && attempt+1 < s.cfg.MaxAttempts:
			back := s.backoff(attempt)
			log.Warn().Err(err).
				Str("contribution", string(act.ContributionID())).
				Int("attempt", attempt).
				Dur("retry_in", back).
				Msg("ledger transient error retrying")
			select {
			case <-ctx.Done():
				return "", false
			default:
			}
			s.sleep(back)
		default:
			s.report(ctx, dom.FailureReport{
				ContributionID: act.ContributionID(),
				Kind:           act.Kind(),
				Outcome:        dom.OutcomeGaveUp,
				Reason:         err.Error(),
				At:             s.now(),
			})
			return "", false
		}
	}
}

// confirm writes the post-transition state to the cache. The ledger has
// already accepted, so cache failures are retried independently rather
// than resubmitting the transaction
func (s *Svc) confirm(ctx context.Context, next contribution.Contribution, act contribution.Action, ref dom.TxRef) {
	log := logger.Named("reconciler-worker")

	for attempt := 0; ; attempt++ {
		changed, err := s.repo.ApplyConfirmed(ctx, next, ref)
		if err == nil {
			if !changed {
				log.Debug().Str("tx", string(ref)).Msg("cache already holds tx skipping")
			}
			s.auditRow(ctx, act.ContributionID(), act.Kind().String(), dom.OutcomeConfirmed, ref, "")
			log.Info().
				Str("contribution", string(act.ContributionID())).
				Str("kind", act.Kind().String()).
				Str("tx", string(ref)).
				Msg("transition confirmed")
			return
		}
		if perr.IsRetryable(err) && attempt+1 < s.cfg.MaxAttempts {
			back := s.backoff(attempt)
			log.Warn().Err(err).Dur("retry_in", back).Msg("cache apply transient error retrying")
			s.sleep(back)
			continue
		}
		// cache divergence: confirmed on ledger but not cached
		log.Error().Err(err).
			Str("contribution", string(act.ContributionID())).
			Str("tx", string(ref)).
			Msg("cache apply failed after ledger confirm")
		s.auditRow(ctx, act.ContributionID(), act.Kind().String(), dom.OutcomeGaveUp, ref, err.Error())
		return
	}
}

func (s *Svc) report(ctx context.Context, rep dom.FailureReport) {
	logger.Named("reconciler-worker").Warn().
		Str("contribution", string(rep.ContributionID)).
		Str("kind", rep.Kind.String()).
		Str("outcome", string(rep.Outcome)).
		Str("reason", rep.Reason).
		Msg("transition not confirmed")
	s.auditRow(ctx, rep.ContributionID, rep.Kind.String(), rep.Outcome, "", rep.Reason)
}
