package github

import "time"

// Actor is the minimal author shape embedded in other payloads
type Actor struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// Repo is a trimmed repository payload
type Repo struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Name     string `json:"name"`
	Owner    Actor  `json:"owner"`
	Private  bool   `json:"private"`
	HTMLURL  string `json:"html_url"`
}

// PullRequest is a trimmed pull request payload from the list endpoint
type PullRequest struct {
	ID       int64      `json:"id"`
	Number   int        `json:"number"`
	State    string     `json:"state"`
	Title    string     `json:"title"`
	User     Actor      `json:"user"`
	MergedAt *time.Time `json:"merged_at"`
	ClosedAt *time.Time `json:"closed_at"`
}

// Status folds GitHub's state plus merged_at into a single lifecycle label
func (pr PullRequest) Status() string {
	switch {
	case pr.State == "open":
		return "open"
	case pr.MergedAt != nil:
		return "merged"
	default:
		return "closed"
	}
}
