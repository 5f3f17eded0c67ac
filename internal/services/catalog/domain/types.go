// Package domain defines catalog types and ports
package domain

// ProjectFilter narrows project listings. Empty fields match everything
type ProjectFilter struct {
	Owner string
	Name  string
}

// ContributionSummary is a cached contribution row nested under its project
type ContributionSummary struct {
	ID          string `json:"id"`
	IssueNumber int    `json:"issue_number"`
	Status      string `json:"status"`
	Contributor string `json:"contributor,omitempty"`
}

// Project is one tracked repository with its cached contributions
type Project struct {
	ID            int64                 `json:"id"`
	Owner         string                `json:"owner"`
	Name          string                `json:"name"`
	Contributions []ContributionSummary `json:"contributions"`
}

// Contributor aggregates cached contribution state for one contributor
type Contributor struct {
	ID        string `json:"id"`
	Assigned  int    `json:"assigned"`
	Completed int    `json:"completed"`
}
