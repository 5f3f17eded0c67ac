// Package repo provides the sync pipeline repository
package repo

import (
	"context"

	"tally/internal/modkit/repokit"
	perr "tally/internal/platform/errors"
	"tally/internal/services/sync/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage persists tracked projects and their work item snapshots
type Storage interface {
	ListTracked(ctx context.Context) ([]domain.Project, error)
	UpsertProject(ctx context.Context, p domain.Project) error

	// UpsertWorkItem records the ledger-confirmed snapshot under its tx ref
	UpsertWorkItem(ctx context.Context, w domain.WorkItem, txRef string) error

	// Stale lists work items whose last ledger update is older than the cutoff
	Stale(ctx context.Context, olderThanDays int) ([]domain.WorkItem, error)
}

// ListTracked implements Storage
func (s *pg) ListTracked(ctx context.Context) ([]domain.Project, error) {
	const q = `SELECT id, owner, name FROM projects ORDER BY id`
	rows, err := s.q.Query(ctx, q)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list tracked projects")
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Owner, &p.Name); err != nil {
			return nil, perr.FromPostgresf(err, "scan project")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "iterate projects")
	}
	return out, nil
}

// UpsertProject implements Storage
func (s *pg) UpsertProject(ctx context.Context, p domain.Project) error {
	const q = `
		INSERT INTO projects (id, owner, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET owner = EXCLUDED.owner, name = EXCLUDED.name
	`
	_, err := s.q.Exec(ctx, q, p.ID, p.Owner, p.Name)
	return perr.FromPostgres(err, "upsert project "+p.FullName())
}

// UpsertWorkItem implements Storage
func (s *pg) UpsertWorkItem(ctx context.Context, w domain.WorkItem, txRef string) error {
	const q = `
		INSERT INTO work_items (project_id, number, author, status, title, tx_ref, last_ledger_update)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (project_id, number) DO UPDATE SET
			author = EXCLUDED.author,
			status = EXCLUDED.status,
			title = EXCLUDED.title,
			tx_ref = EXCLUDED.tx_ref,
			last_ledger_update = now()
	`
	_, err := s.q.Exec(ctx, q, w.ProjectID, w.Number, w.Author, w.Status, w.Title, txRef)
	return perr.FromPostgresf(err, "upsert work item %d/%d", w.ProjectID, w.Number)
}

// Stale implements Storage
func (s *pg) Stale(ctx context.Context, olderThanDays int) ([]domain.WorkItem, error) {
	const q = `
		SELECT project_id, number, author, status, title
		FROM work_items
		WHERE last_ledger_update < now() - make_interval(days => $1)
		ORDER BY project_id, number
	`
	rows, err := s.q.Query(ctx, q, olderThanDays)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list stale work items")
	}
	defer rows.Close()

	var out []domain.WorkItem
	for rows.Next() {
		var w domain.WorkItem
		if err := rows.Scan(&w.ProjectID, &w.Number, &w.Author, &w.Status, &w.Title); err != nil {
			return nil, perr.FromPostgresf(err, "scan work item")
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "iterate work items")
	}
	return out, nil
}
