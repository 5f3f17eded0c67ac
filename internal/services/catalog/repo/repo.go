// Package repo provides the catalog repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"

	"tally/internal/modkit/repokit"
	perr "tally/internal/platform/errors"
	"tally/internal/services/catalog/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the catalog repository
type Storage interface {
	FindProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error)
	ContributorByID(ctx context.Context, id string) (*domain.Contributor, error)
}

// FindProjects implements Storage. Contributions ride along per project
// so one listing answers the whole registry view
func (s *pg) FindProjects(ctx context.Context, f domain.ProjectFilter) ([]domain.Project, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT
			p.id, p.owner, p.name,
			COALESCE(c.id, ''), COALESCE(c.issue_number, 0),
			COALESCE(c.status, ''), COALESCE(c.contributor_id, '')
		FROM projects p
		LEFT JOIN contributions c ON c.project_id = p.id
		WHERE 1=1
	`)
	if f.Owner != "" {
		sb.WriteString("  AND p.owner = " + arg(f.Owner) + "\n")
	}
	if f.Name != "" {
		sb.WriteString("  AND p.name = " + arg(f.Name) + "\n")
	}
	sb.WriteString(" ORDER BY p.id, c.id")

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgresf(err, "find projects")
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var (
			p domain.Project
			c domain.ContributionSummary
		)
		if err := rows.Scan(&p.ID, &p.Owner, &p.Name, &c.ID, &c.IssueNumber, &c.Status, &c.Contributor); err != nil {
			return nil, perr.FromPostgresf(err, "scan project")
		}
		if len(out) == 0 || out[len(out)-1].ID != p.ID {
			p.Contributions = []domain.ContributionSummary{}
			out = append(out, p)
		}
		if c.ID != "" {
			last := &out[len(out)-1]
			last.Contributions = append(last.Contributions, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "iterate projects")
	}
	return out, nil
}

// ContributorByID implements Storage
func (s *pg) ContributorByID(ctx context.Context, id string) (*domain.Contributor, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE status = 'assigned'),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM contributions
		WHERE contributor_id = $1
	`
	var c domain.Contributor
	if err := s.q.QueryRow(ctx, q, id).Scan(&c.Assigned, &c.Completed); err != nil {
		return nil, perr.FromPostgresf(err, "contributor %s", id)
	}
	if c.Assigned == 0 && c.Completed == 0 {
		return nil, nil
	}
	c.ID = id
	return &c, nil
}
