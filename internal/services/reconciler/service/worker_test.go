package service

import (
	"context"
	"testing"
	"time"

	"tally/internal/core/contribution"
	perr "tally/internal/platform/errors"
	"tally/internal/platform/store"

	dom "tally/internal/services/reconciler/domain"
	"tally/internal/services/reconciler/queue"
)

type fakeStorage struct {
	rows        map[contribution.ID]contribution.Contribution
	refs        map[contribution.ID]dom.TxRef
	unconfirmed []contribution.ID
	getErr      error
	applyErrs   []error
	applyCalls  int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		rows: map[contribution.ID]contribution.Contribution{},
		refs: map[contribution.ID]dom.TxRef{},
	}
}

func (f *fakeStorage) Get(_ context.Context, id contribution.ID) (*contribution.Contribution, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStorage) ApplyConfirmed(_ context.Context, next contribution.Contribution, ref dom.TxRef) (bool, error) {
	f.applyCalls++
	if len(f.applyErrs) > 0 {
		err := f.applyErrs[0]
		f.applyErrs = f.applyErrs[1:]
		if err != nil {
			return false, err
		}
	}
	if f.refs[next.ID] == ref {
		return false, nil
	}
	f.rows[next.ID] = next
	f.refs[next.ID] = ref
	return true, nil
}

func (f *fakeStorage) Unconfirmed(context.Context) ([]contribution.ID, error) {
	return f.unconfirmed, nil
}

type fakeLedger struct {
	calls int
	errs  []error
	ref   dom.TxRef
}

func (f *fakeLedger) Submit(context.Context, contribution.Action) (dom.TxRef, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.ref, nil
}

type auditSink struct {
	rows [][]any
}

func (a *auditSink) Insert(_ context.Context, _ string, _ []string, rows [][]any) error {
	a.rows = append(a.rows, rows...)
	return nil
}

func (a *auditSink) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, nil
}

func (a *auditSink) Close() error { return nil }

func (a *auditSink) outcomes() []string {
	var out []string
	for _, r := range a.rows {
		out = append(out, r[3].(string))
	}
	return out
}

func newTestSvc(st *fakeStorage, led *fakeLedger, audit *auditSink) (*Svc, *[]time.Duration) {
	slept := &[]time.Duration{}
	s := &Svc{
		repo:   st,
		q:      queue.New(),
		ledger: led,
		cfg:    Config{TickMs: 10, MaxAttempts: 3, RetryBaseMs: 1},
		now:    time.Now,
		sleep:  func(d time.Duration) { *slept = append(*slept, d) },
	}
	if audit != nil {
		s.audit = audit
	}
	return s, slept
}

func open(id string) contribution.Contribution {
	return contribution.Contribution{ID: contribution.ID(id), ProjectID: 1, IssueNumber: 7, Status: contribution.StatusOpen}
}

func TestProcessConfirmsAndCaches(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.rows["c-1"] = open("c-1")
	led := &fakeLedger{ref: "0xaa"}
	audit := &auditSink{}
	s, _ := newTestSvc(st, led, audit)

	s.process(context.Background(), dom.QueuedAction{Act: contribution.Assign{ID: "c-1", Contributor: "octocat"}})

	if led.calls != 1 {
		t.Fatalf("ledger calls = %d, want 1", led.calls)
	}
	got := st.rows["c-1"]
	if got.Status != contribution.StatusAssigned || got.Contributor != "octocat" {
		t.Fatalf("cached = %+v", got)
	}
	if st.refs["c-1"] != "0xaa" {
		t.Fatalf("tx ref = %q", st.refs["c-1"])
	}
	if oc := audit.outcomes(); len(oc) != 1 || oc[0] != "confirmed" {
		t.Fatalf("audit outcomes = %v", oc)
	}
}

func TestTransientRetriesThenSuccess(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.rows["c-1"] = open("c-1")
	led := &fakeLedger{
		ref: "0xbb",
		errs: []error{
			perr.Unavailablef("gateway busy"),
			perr.Unavailablef("gateway busy"),
			perr.Unavailablef("gateway busy"),
		},
	}
	s, slept := newTestSvc(st, led, nil)
	s.cfg.MaxAttempts = 5

	s.process(context.Background(), dom.QueuedAction{Act: contribution.Assign{ID: "c-1", Contributor: "a"}})

	if led.calls != 4 {
		t.Fatalf("ledger calls = %d, want 4", led.calls)
	}
	if len(*slept) != 3 {
		t.Fatalf("sleeps = %d, want 3", len(*slept))
	}
	if (*slept)[1] <= (*slept)[0] {
		t.Fatalf("backoff not increasing: %v", *slept)
	}
	if st.rows["c-1"].Status != contribution.StatusAssigned {
		t.Fatalf("status = %v", st.rows["c-1"].Status)
	}
}

func TestRejectedNotRetried(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.rows["c-1"] = open("c-1")
	led := &fakeLedger{errs: []error{perr.LedgerRejectedf("duplicate invoke")}}
	audit := &auditSink{}
	s, slept := newTestSvc(st, led, audit)

	s.process(context.Background(), dom.QueuedAction{Act: contribution.Assign{ID: "c-1", Contributor: "a"}})

	if led.calls != 1 {
		t.Fatalf("ledger calls = %d, want 1", led.calls)
	}
	if len(*slept) != 0 {
		t.Fatalf("slept %v, want none", *slept)
	}
	if st.rows["c-1"].Status != contribution.StatusOpen {
		t.Fatal("cache mutated on rejection")
	}
	if oc := audit.outcomes(); len(oc) != 1 || oc[0] != "rejected" {
		t.Fatalf("audit outcomes = %v", oc)
	}
}

func TestGaveUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.rows["c-1"] = open("c-1")
	led := &fakeLedger{errs: []error{
		perr.Unavailablef("down"), perr.Unavailablef("down"), perr.Unavailablef("down"),
	}}
	audit := &auditSink{}
	s, _ := newTestSvc(st, led, audit)

	s.process(context.Background(), dom.QueuedAction{Act: contribution.Validate{ID: "c-1"}})

	// validate on an open contribution is illegal, pick assign instead
	if oc := audit.outcomes(); len(oc) != 1 || oc[0] != "illegal" {
		t.Fatalf("audit outcomes = %v", oc)
	}

	audit.rows = nil
	led.errs = []error{perr.Unavailablef("down"), perr.Unavailablef("down"), perr.Unavailablef("down")}
	led.calls = 0
	s.process(context.Background(), dom.QueuedAction{Act: contribution.Assign{ID: "c-1", Contributor: "a"}})

	if led.calls != 3 {
		t.Fatalf("ledger calls = %d, want 3", led.calls)
	}
	if oc := audit.outcomes(); len(oc) != 1 || oc[0] != "gave_up" {
		t.Fatalf("audit outcomes = %v", oc)
	}
	if st.rows["c-1"].Status != contribution.StatusOpen {
		t.Fatal("cache mutated after give up")
	}
}

func TestIllegalNeverReachesLedger(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.rows["c-1"] = open("c-1")
	led := &fakeLedger{}
	audit := &auditSink{}
	s, _ := newTestSvc(st, led, audit)

	s.process(context.Background(), dom.QueuedAction{Act: contribution.Unassign{ID: "c-1"}})

	if led.calls != 0 {
		t.Fatalf("ledger calls = %d, want 0", led.calls)
	}
	if oc := audit.outcomes(); len(oc) != 1 || oc[0] != "illegal" {
		t.Fatalf("audit outcomes = %v", oc)
	}
}

func TestCacheRetryAfterLedgerConfirm(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.rows["c-1"] = open("c-1")
	st.applyErrs = []error{perr.Newf(perr.ErrorCodeDB, "commit unexpectedly resulted in rollback")}
	led := &fakeLedger{ref: "0xcc"}
	s, _ := newTestSvc(st, led, nil)

	s.process(context.Background(), dom.QueuedAction{Act: contribution.Assign{ID: "c-1", Contributor: "a"}})

	if led.calls != 1 {
		t.Fatalf("ledger calls = %d, want 1 (no resubmission)", led.calls)
	}
	if st.applyCalls != 2 {
		t.Fatalf("apply calls = %d, want 2", st.applyCalls)
	}
	if st.rows["c-1"].Status != contribution.StatusAssigned {
		t.Fatalf("status = %v", st.rows["c-1"].Status)
	}
}

func TestEnqueuePrecheck(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.rows["c-1"] = open("c-1")
	s, _ := newTestSvc(st, &fakeLedger{}, nil)

	err := s.Enqueue(context.Background(), contribution.Validate{ID: "c-1"})
	if !contribution.IsIllegalTransition(err) {
		t.Fatalf("err = %v, want illegal transition", err)
	}
	if s.Pending() != 0 {
		t.Fatalf("pending = %d after rejected enqueue", s.Pending())
	}

	if err := s.Enqueue(context.Background(), contribution.Assign{ID: "c-1", Contributor: "a"}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if s.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", s.Pending())
	}
}

func TestEnqueueMissingContribution(t *testing.T) {
	t.Parallel()

	s, _ := newTestSvc(newFakeStorage(), &fakeLedger{}, nil)
	err := s.Enqueue(context.Background(), contribution.Assign{ID: "ghost", Contributor: "a"})
	if !contribution.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRecoverReportsUnconfirmed(t *testing.T) {
	t.Parallel()

	st := newFakeStorage()
	st.unconfirmed = []contribution.ID{"c-1", "c-2"}
	audit := &auditSink{}
	s, _ := newTestSvc(st, &fakeLedger{}, audit)

	n, err := s.Recover(context.Background())
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	for i, oc := range audit.outcomes() {
		if oc != "unconfirmed" {
			t.Fatalf("outcome[%d] = %q", i, oc)
		}
	}
	if len(audit.rows) != 2 {
		t.Fatalf("audit rows = %d", len(audit.rows))
	}
}
