// Package repo provides the contributions cache repository
package repo

import (
	"context"

	"tally/internal/core/contribution"
	"tally/internal/modkit/repokit"
	perr "tally/internal/platform/errors"
	"tally/internal/services/reconciler/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the relational cache of confirmed contribution state
type Storage interface {
	// Get returns the cached contribution or nil when absent
	Get(ctx context.Context, id contribution.ID) (*contribution.Contribution, error)

	// ApplyConfirmed upserts the post-transition state under its tx ref.
	// Re-applying the same tx ref is a no-op so replays stay harmless
	ApplyConfirmed(ctx context.Context, next contribution.Contribution, ref domain.TxRef) (bool, error)

	// Unconfirmed lists cached contributions missing a ledger tx ref
	Unconfirmed(ctx context.Context) ([]contribution.ID, error)
}

const applyConfirmedSQL = `
	INSERT INTO contributions (id, project_id, issue_number, status, contributor_id, tx_ref, updated_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, now())
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		contributor_id = EXCLUDED.contributor_id,
		tx_ref = EXCLUDED.tx_ref,
		updated_at = now()
	WHERE contributions.tx_ref IS DISTINCT FROM EXCLUDED.tx_ref
`

// ApplyConfirmed implements Storage
func (s *pg) ApplyConfirmed(ctx context.Context, next contribution.Contribution, ref domain.TxRef) (bool, error) {
	if ref == "" {
		return false, perr.InvalidArgf("apply confirmed requires a tx ref")
	}
	tag, err := s.q.Exec(ctx, applyConfirmedSQL,
		string(next.ID), next.ProjectID, next.IssueNumber,
		next.Status.String(), string(next.Contributor), string(ref),
	)
	if err != nil {
		return false, perr.FromPostgresf(err, "apply confirmed %s", next.ID)
	}
	return tag.RowsAffected() > 0, nil
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id contribution.ID) (*contribution.Contribution, error) {
	const q = `
		SELECT id, project_id, issue_number, status, COALESCE(contributor_id, '')
		FROM contributions
		WHERE id = $1
	`
	var (
		out    contribution.Contribution
		rawID  string
		status string
		contr  string
	)
	err := s.q.QueryRow(ctx, q, string(id)).Scan(&rawID, &out.ProjectID, &out.IssueNumber, &status, &contr)
	if err != nil {
		if perr.IsNoRows(err) {
			return nil, nil
		}
		return nil, perr.FromPostgresf(err, "get contribution %s", id)
	}
	out.ID = contribution.ID(rawID)
	out.Contributor = contribution.ContributorID(contr)
	st, err := contribution.ParseStatus(status)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "get contribution %s", id)
	}
	out.Status = st
	return &out, nil
}

// Unconfirmed implements Storage
func (s *pg) Unconfirmed(ctx context.Context) ([]contribution.ID, error) {
	const q = `SELECT id FROM contributions WHERE tx_ref IS NULL ORDER BY id`
	rows, err := s.q.Query(ctx, q)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list unconfirmed")
	}
	defer rows.Close()

	var out []contribution.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, perr.FromPostgresf(err, "scan unconfirmed")
		}
		out = append(out, contribution.ID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "iterate unconfirmed")
	}
	return out, nil
}

// ExecuteActions applies a batch of confirmed states under one tx ref.
// The batch is deliberately not atomic: rows applied before a failure stay
// applied, and the count plus the failing id tell the caller where it
// stopped. Re-running is safe because the tx ref guard makes each row a
// no-op once it holds the ref
func ExecuteActions(
	ctx context.Context,
	st Storage,
	next []contribution.Contribution,
	ref domain.TxRef,
) (int, error) {
	applied := 0
	for _, c := range next {
		ok, err := st.ApplyConfirmed(ctx, c, ref)
		if err != nil {
			return applied, perr.Wrapf(err, perr.CodeOf(err), "batch stopped at contribution %s", c.ID)
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}
