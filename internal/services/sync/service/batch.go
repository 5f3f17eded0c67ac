package service

import (
	"context"
	"sync"
	"time"

	"tally/internal/adapters/ledger"
	"tally/internal/platform/logger"

	dom "tally/internal/services/sync/domain"
)

// FetchAndLog implements domain.SyncPort. One batch runs in three phases:
// fetch everything up front so a partial listing never reaches the ledger,
// fan the ledger writes out under a semaphore and gather every outcome,
// then write the confirmed snapshots to the cache sequentially
func (s *Svc) FetchAndLog(ctx context.Context, f dom.Filter) (dom.BatchReport, error) {
	log := logger.Named("sync")
	started := time.Now()

	projects, err := s.resolveProjects(ctx, f)
	if err != nil {
		return dom.BatchReport{}, err
	}

	// phase 1: fetch all or nothing
	var items []dom.WorkItem
	for _, p := range projects {
		prs, err := s.gh.ListPullRequests(ctx, p.Owner, p.Name)
		if err != nil {
			return dom.BatchReport{}, err
		}
		for _, pr := range prs {
			items = append(items, dom.WorkItem{
				ProjectID: p.ID,
				Number:    pr.Number,
				Author:    pr.User.Login,
				Status:    pr.Status(),
				Title:     pr.Title,
			})
		}
		if err := s.repo.UpsertProject(ctx, p); err != nil {
			return dom.BatchReport{}, err
		}
	}

	// phase 2: ledger fan-out, gather every outcome before touching the cache
	outcomes := make([]dom.ItemOutcome, len(items))
	sem := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup
	for i := range items {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			it := items[i]
			out := dom.ItemOutcome{ProjectID: it.ProjectID, Number: it.Number}
			ref, err := s.ledger.LogStatus(ctx, ledger.StatusUpdate{
				ProjectID:  it.ProjectID,
				WorkItemID: int64(it.Number),
				Author:     it.Author,
				Status:     it.Status,
			})
			if err != nil {
				out.Err = err.Error()
			} else {
				out.TxRef = string(ref)
			}
			outcomes[i] = out
		}(i)
	}
	wg.Wait()

	// phase 3: cache the items the ledger accepted, in order
	succeeded := 0
	for i, out := range outcomes {
		if !out.OK() {
			log.Warn().
				Int64("project", out.ProjectID).
				Int("number", out.Number).
				Str("reason", out.Err).
				Msg("work item not logged")
			continue
		}
		if err := s.repo.UpsertWorkItem(ctx, items[i], out.TxRef); err != nil {
			log.Error().Err(err).
				Int64("project", out.ProjectID).
				Int("number", out.Number).
				Msg("cache upsert failed after ledger log")
			outcomes[i].Err = err.Error()
			continue
		}
		succeeded++
	}

	rep := dom.BatchReport{
		Succeeded: succeeded,
		Total:     len(items),
		StartedAt: started,
		Elapsed:   time.Since(started),
		Outcomes:  outcomes,
	}
	log.Info().
		Int("succeeded", rep.Succeeded).
		Int("total", rep.Total).
		Dur("elapsed", rep.Elapsed).
		Msgf("Logged %d/%d work items", rep.Succeeded, rep.Total)
	return rep, nil
}

// resolveProjects expands the filter into concrete projects, looking the
// repository up on GitHub when it is not tracked yet
func (s *Svc) resolveProjects(ctx context.Context, f dom.Filter) ([]dom.Project, error) {
	if f.IsZero() {
		return s.repo.ListTracked(ctx)
	}
	tracked, err := s.repo.ListTracked(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range tracked {
		if p.Owner == f.Owner && p.Name == f.Name {
			return []dom.Project{p}, nil
		}
	}
	repo, err := s.gh.RepoByFullName(ctx, f.Owner, f.Name)
	if err != nil {
		return nil, err
	}
	return []dom.Project{{ID: repo.ID, Owner: f.Owner, Name: f.Name}}, nil
}
