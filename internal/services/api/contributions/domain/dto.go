// Package domain holds DTOs for the contributions http contract
package domain

// CreateInput asks for a new contribution in the open state
type CreateInput struct {
	ID          string `json:"id"           validate:"required,min=1,max=128,printascii" example:"c-7f3a"`
	ProjectID   int64  `json:"project_id"   validate:"required,gt=0"                     example:"42"`
	IssueNumber int    `json:"issue_number" validate:"required,gt=0"                     example:"1337"`
}

// AssignInput asks to hand the contribution to a contributor
type AssignInput struct {
	ContributorID string `json:"contributor_id" validate:"required,min=1,max=128,printascii" example:"0xdead"`
}

// QueuedOutput acknowledges that a transition was queued for reconciliation
type QueuedOutput struct {
	ContributionID string `json:"contribution_id" example:"c-7f3a"`
	Kind           string `json:"kind"            example:"assign"`
	Queued         bool   `json:"queued"          example:"true"`
}
