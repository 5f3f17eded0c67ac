package service

import (
	"context"
	"sync"
	"testing"
	"time"

	gh "tally/internal/adapters/github"
	"tally/internal/adapters/ledger"
	perr "tally/internal/platform/errors"

	dom "tally/internal/services/sync/domain"
)

type fakeFetcher struct {
	prs     map[string][]gh.PullRequest
	repos   map[string]gh.Repo
	listErr error
}

func (f *fakeFetcher) ListPullRequests(_ context.Context, owner, name string) ([]gh.PullRequest, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.prs[owner+"/"+name], nil
}

func (f *fakeFetcher) RepoByFullName(_ context.Context, owner, name string) (gh.Repo, error) {
	r, ok := f.repos[owner+"/"+name]
	if !ok {
		return gh.Repo{}, perr.Upstreamf("repo %s/%s not found", owner, name)
	}
	return r, nil
}

type fakeStatusLedger struct {
	mu     sync.Mutex
	calls  int
	failOn map[int64]bool
}

func (f *fakeStatusLedger) LogStatus(_ context.Context, su ledger.StatusUpdate) (ledger.TxRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn[su.WorkItemID] {
		return "", perr.Unavailablef("gateway busy")
	}
	return ledger.TxRef("0x" + su.Status), nil
}

type fakeSyncRepo struct {
	mu       sync.Mutex
	tracked  []dom.Project
	projects []dom.Project
	items    []dom.WorkItem
	refs     map[string]string
}

func newFakeSyncRepo(tracked ...dom.Project) *fakeSyncRepo {
	return &fakeSyncRepo{tracked: tracked, refs: map[string]string{}}
}

func (f *fakeSyncRepo) ListTracked(context.Context) ([]dom.Project, error) {
	return f.tracked, nil
}

func (f *fakeSyncRepo) UpsertProject(_ context.Context, p dom.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, p)
	return nil
}

func (f *fakeSyncRepo) UpsertWorkItem(_ context.Context, w dom.WorkItem, txRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, w)
	f.refs[w.Status] = txRef
	return nil
}

func (f *fakeSyncRepo) Stale(context.Context, int) ([]dom.WorkItem, error) { return nil, nil }

func pr(n int, author, state string) gh.PullRequest {
	return gh.PullRequest{ID: int64(n), Number: n, State: state, User: gh.Actor{Login: author}}
}

func newSyncSvc(repo *fakeSyncRepo, f *fakeFetcher, led *fakeStatusLedger) *Svc {
	return &Svc{
		repo:   repo,
		gh:     f,
		ledger: led,
		cfg:    Config{Concurrency: 2},
	}
}

func TestFetchAndLogReportsPartialSuccess(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{prs: map[string][]gh.PullRequest{
		"acme/widgets": {
			pr(1, "a", "open"), pr(2, "b", "open"), pr(3, "c", "open"),
			pr(4, "d", "open"), pr(5, "e", "open"),
		},
	}}
	led := &fakeStatusLedger{failOn: map[int64]bool{3: true}}
	repo := newFakeSyncRepo(dom.Project{ID: 42, Owner: "acme", Name: "widgets"})
	s := newSyncSvc(repo, fetcher, led)

	rep, err := s.FetchAndLog(context.Background(), dom.Filter{})
	if err != nil {
		t.Fatalf("FetchAndLog: %v", err)
	}
	if rep.Total != 5 || rep.Succeeded != 4 {
		t.Fatalf("report = %d/%d, want 4/5", rep.Succeeded, rep.Total)
	}
	if led.calls != 5 {
		t.Fatalf("ledger calls = %d, want 5 (failures must not abort the batch)", led.calls)
	}
	if len(repo.items) != 4 {
		t.Fatalf("cached items = %d, want 4", len(repo.items))
	}
	for _, it := range repo.items {
		if it.Number == 3 {
			t.Fatal("failed item reached the cache")
		}
	}

	var failed int
	for _, o := range rep.Outcomes {
		if !o.OK() {
			failed++
			if o.Number != 3 {
				t.Fatalf("wrong failed item: %d", o.Number)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("failed outcomes = %d, want 1", failed)
	}
}

func TestFetchAndLogFetchFailureIsAllOrNothing(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{listErr: perr.Upstreamf("github down")}
	led := &fakeStatusLedger{}
	repo := newFakeSyncRepo(dom.Project{ID: 42, Owner: "o", Name: "r"})
	s := newSyncSvc(repo, fetcher, led)

	_, err := s.FetchAndLog(context.Background(), dom.Filter{})
	if err == nil {
		t.Fatal("want error")
	}
	if led.calls != 0 {
		t.Fatalf("ledger calls = %d, want 0 after fetch failure", led.calls)
	}
	if len(repo.items) != 0 {
		t.Fatal("cache written after fetch failure")
	}
}

func TestFetchAndLogFilterTracksNewProject(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		prs:   map[string][]gh.PullRequest{"o/r": {pr(1, "a", "open")}},
		repos: map[string]gh.Repo{"o/r": {ID: 99, FullName: "o/r"}},
	}
	repo := newFakeSyncRepo()
	s := newSyncSvc(repo, fetcher, &fakeStatusLedger{})

	rep, err := s.FetchAndLog(context.Background(), dom.Filter{Owner: "o", Name: "r"})
	if err != nil {
		t.Fatalf("FetchAndLog: %v", err)
	}
	if rep.Succeeded != 1 || rep.Total != 1 {
		t.Fatalf("report = %d/%d", rep.Succeeded, rep.Total)
	}
	if len(repo.projects) != 1 || repo.projects[0].ID != 99 {
		t.Fatalf("projects = %+v", repo.projects)
	}
	if repo.items[0].ProjectID != 99 {
		t.Fatalf("item project = %d", repo.items[0].ProjectID)
	}
}

func TestFetchAndLogMergedStatusReachesLedger(t *testing.T) {
	t.Parallel()

	merged := pr(1, "a", "closed")
	tm := time.Now()
	merged.MergedAt = &tm

	fetcher := &fakeFetcher{prs: map[string][]gh.PullRequest{"o/r": {merged}}}
	repo := newFakeSyncRepo(dom.Project{ID: 1, Owner: "o", Name: "r"})
	s := newSyncSvc(repo, fetcher, &fakeStatusLedger{})

	if _, err := s.FetchAndLog(context.Background(), dom.Filter{}); err != nil {
		t.Fatalf("FetchAndLog: %v", err)
	}
	if got := repo.refs["merged"]; got != "0xmerged" {
		t.Fatalf("tx ref for merged item = %q", got)
	}
}
