// Package domain defines sync pipeline types and ports
package domain

import "time"

// Project is one tracked GitHub repository
type Project struct {
	ID    int64
	Owner string
	Name  string
}

// FullName renders owner/name
func (p Project) FullName() string { return p.Owner + "/" + p.Name }

// Filter narrows a sync run to one repository. Zero value means all tracked
type Filter struct {
	Owner string
	Name  string
}

// IsZero reports whether the filter selects everything
func (f Filter) IsZero() bool { return f.Owner == "" && f.Name == "" }

// WorkItem is one pull request snapshot headed for the ledger and cache
type WorkItem struct {
	ProjectID int64
	Number    int
	Author    string
	Status    string
	Title     string
}

// ItemOutcome records how one work item fared during a batch
type ItemOutcome struct {
	ProjectID int64
	Number    int
	TxRef     string
	Err       string
}

// OK reports whether the item was logged on the ledger
func (o ItemOutcome) OK() bool { return o.Err == "" }

// BatchReport summarizes one sync run
type BatchReport struct {
	Succeeded int
	Total     int
	StartedAt time.Time
	Elapsed   time.Duration
	Outcomes  []ItemOutcome
}
