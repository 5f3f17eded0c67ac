package repo

import (
	"context"
	"strings"
	"testing"

	"tally/internal/platform/store"
	"tally/internal/services/catalog/domain"
)

// fakeRows feeds canned row values through the store.Rows seam
type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool { return r.i < len(r.rows) }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i]
	r.i++
	for j, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[j].(int64)
		case *int:
			*p = row[j].(int)
		case *string:
			*p = row[j].(string)
		}
	}
	return nil
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

type fakeRow struct {
	vals []any
}

func (r fakeRow) Scan(dest ...any) error {
	for j, d := range dest {
		if p, ok := d.(*int); ok {
			*p = r.vals[j].(int)
		}
	}
	return nil
}

type fakeQueryer struct {
	lastSQL  string
	lastArgs []any
	rows     [][]any
	row      []any
}

func (q *fakeQueryer) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	return nil, nil
}

func (q *fakeQueryer) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	q.lastSQL, q.lastArgs = sql, args
	return &fakeRows{rows: q.rows}, nil
}

func (q *fakeQueryer) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	q.lastSQL, q.lastArgs = sql, args
	return fakeRow{vals: q.row}
}

func TestFindProjectsGroupsContributions(t *testing.T) {
	q := &fakeQueryer{rows: [][]any{
		{int64(1), "acme", "widgets", "c1", 12, "assigned", "anon"},
		{int64(1), "acme", "widgets", "c2", 13, "open", ""},
		{int64(2), "acme", "empty", "", 0, "", ""},
	}}
	s := NewPG().Bind(q)

	out, err := s.FindProjects(context.Background(), domain.ProjectFilter{})
	if err != nil {
		t.Fatalf("FindProjects: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 projects, got %d", len(out))
	}
	if len(out[0].Contributions) != 2 {
		t.Fatalf("project 1 should nest 2 contributions, got %d", len(out[0].Contributions))
	}
	if out[0].Contributions[0].ID != "c1" || out[0].Contributions[1].Status != "open" {
		t.Fatalf("contribution rows misgrouped: %+v", out[0].Contributions)
	}
	if len(out[1].Contributions) != 0 {
		t.Fatalf("contribution-less project should keep an empty slice, got %+v", out[1].Contributions)
	}
	if out[1].Contributions == nil {
		t.Fatal("empty contributions should marshal as [], not null")
	}
}

func TestFindProjectsFilterArgs(t *testing.T) {
	q := &fakeQueryer{}
	s := NewPG().Bind(q)

	if _, err := s.FindProjects(context.Background(), domain.ProjectFilter{Owner: "acme", Name: "widgets"}); err != nil {
		t.Fatalf("FindProjects: %v", err)
	}
	if len(q.lastArgs) != 2 || q.lastArgs[0] != "acme" || q.lastArgs[1] != "widgets" {
		t.Fatalf("filter args = %v", q.lastArgs)
	}
	if !strings.Contains(q.lastSQL, "p.owner = $1") || !strings.Contains(q.lastSQL, "p.name = $2") {
		t.Fatalf("filter clauses missing from sql:\n%s", q.lastSQL)
	}
}

func TestContributorByID(t *testing.T) {
	q := &fakeQueryer{row: []any{2, 5}}
	s := NewPG().Bind(q)

	c, err := s.ContributorByID(context.Background(), "anon")
	if err != nil {
		t.Fatalf("ContributorByID: %v", err)
	}
	if c == nil || c.ID != "anon" || c.Assigned != 2 || c.Completed != 5 {
		t.Fatalf("contributor = %+v", c)
	}

	// no cached rows at all means unknown contributor
	q.row = []any{0, 0}
	c, err = s.ContributorByID(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ContributorByID zero: %v", err)
	}
	if c != nil {
		t.Fatalf("unknown contributor should be nil, got %+v", c)
	}
}
