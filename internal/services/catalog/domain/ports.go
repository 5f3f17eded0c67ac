package domain

import "context"

// QueryPort answers read requests over the cached catalog
type QueryPort interface {
	FindProjects(ctx context.Context, f ProjectFilter) ([]Project, error)

	// ContributorByID returns nil when the contributor is unknown to the cache
	ContributorByID(ctx context.Context, id string) (*Contributor, error)
}
