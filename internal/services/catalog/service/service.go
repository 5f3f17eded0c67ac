// Package service provides the catalog service implementation
package service

import (
	"context"

	"tally/internal/modkit/repokit"
	dom "tally/internal/services/catalog/domain"
	"tally/internal/services/catalog/repo"
)

// Config for the catalog service
type Config struct {
	HardLimit int
}

// Service implements domain.QueryPort against the cache
type Service struct {
	repo repo.Storage
	cfg  Config
}

// New constructs a new catalog service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{repo: repokit.MustBind(binder, db), cfg: cfg}
}

// FindProjects implements domain.QueryPort
func (s *Service) FindProjects(ctx context.Context, f dom.ProjectFilter) ([]dom.Project, error) {
	out, err := s.repo.FindProjects(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(out) > s.cfg.HardLimit {
		out = out[:s.cfg.HardLimit]
	}
	return out, nil
}

// ContributorByID implements domain.QueryPort
func (s *Service) ContributorByID(ctx context.Context, id string) (*dom.Contributor, error) {
	return s.repo.ContributorByID(ctx, id)
}
