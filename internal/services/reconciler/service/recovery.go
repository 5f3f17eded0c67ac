package service

import (
	"context"

	"tally/internal/platform/logger"

	dom "tally/internal/services/reconciler/domain"
)

// Recover implements domain.WorkerPort. It scans the cache for rows that
// never received a ledger tx ref and reports them. Nothing is resubmitted:
// the original submission outcome is unknown and a blind retry could
// double-apply on the ledger. Operators act on the audit trail instead
func (s *Svc) Recover(ctx context.Context) (int, error) {
	ids, err := s.repo.Unconfirmed(ctx)
	if err != nil {
		return 0, err
	}
	log := logger.Named("reconciler-recovery")
	for _, id := range ids {
		log.Warn().Str("contribution", string(id)).Msg("cached row has no ledger tx ref")
		s.auditRow(ctx, id, "", dom.OutcomeUnconfirmed, "", "found at startup without tx ref")
	}
	if len(ids) > 0 {
		log.Warn().Int("count", len(ids)).Msg("unconfirmed cache rows found")
	} else {
		log.Info().Msg("cache clean no unconfirmed rows")
	}
	return len(ids), nil
}
