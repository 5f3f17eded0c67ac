package service

import (
	"context"

	"tally/internal/core/contribution"
	"tally/internal/platform/logger"

	dom "tally/internal/services/reconciler/domain"
)

var auditCols = []string{"at", "contribution_id", "kind", "outcome", "tx_ref", "detail", "worker_id"}

// auditRow appends one terminal outcome to the action_audit table.
// The audit sink is optional; failures are logged and never block the worker
func (s *Svc) auditRow(
	ctx context.Context,
	id contribution.ID,
	kind string,
	outcome dom.Outcome,
	ref dom.TxRef,
	detail string,
) {
	if s.audit == nil {
		return
	}
	row := []any{s.now(), string(id), kind, string(outcome), string(ref), detail, s.workerID}
	if err := s.audit.Insert(ctx, "action_audit", auditCols, [][]any{row}); err != nil {
		logger.Named("reconciler-audit").Error().Err(err).
			Str("contribution", string(id)).
			Str("outcome", string(outcome)).
			Msg("audit insert failed")
	}
}
