// Package contribution holds the contribution entity, the action sum type,
// and the pure transition rules. No I/O lives here
package contribution

import (
	"fmt"
	"strings"
)

// ID identifies a contribution. Assigned upstream (on-chain id), opaque and stable
type ID string

// ContributorID identifies a contributor. Empty means unassigned
type ContributorID string

// Status is the contribution lifecycle state
type Status uint8

// Lifecycle states. Completed is terminal
const (
	StatusOpen Status = iota
	StatusAssigned
	StatusCompleted
)

// String implements fmt.Stringer
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusAssigned:
		return "assigned"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ParseStatus parses the wire form of a Status
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return StatusOpen, nil
	case "assigned":
		return StatusAssigned, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return StatusOpen, fmt.Errorf("unknown contribution status %q", s)
	}
}

// Contribution is the domain entity mirrored between ledger and cache.
// ContributorID is set iff Status is Assigned or Completed
type Contribution struct {
	ID          ID
	ProjectID   int64
	IssueNumber int
	Status      Status
	Contributor ContributorID
}

// Assigned reports whether a contributor is attached
func (c Contribution) Assigned() bool { return c.Contributor != "" }

// Kind discriminates Action variants
type Kind uint8

// Action kinds. Adding a kind must extend Apply and the cache
// application switch; both switch exhaustively over these
const (
	KindCreate Kind = iota
	KindAssign
	KindUnassign
	KindValidate
)

// String implements fmt.Stringer
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindAssign:
		return "assign"
	case KindUnassign:
		return "unassign"
	case KindValidate:
		return "validate"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Action is a requested state transition on a contribution.
// It is a sealed sum type; the concrete variants below are the only implementations
type Action interface {
	Kind() Kind
	ContributionID() ID

	sealed()
}

// Create requests creation of a new contribution in Open state
type Create struct {
	Contribution Contribution
}

// Assign requests attaching a contributor to an Open contribution
type Assign struct {
	ID          ID
	Contributor ContributorID
}

// Unassign requests detaching the contributor from an Assigned contribution
type Unassign struct {
	ID ID
}

// Validate requests completing an Assigned contribution. Terminal
type Validate struct {
	ID ID
}

// Kind implements Action
func (Create) Kind() Kind { return KindCreate }

// Kind implements Action
func (Assign) Kind() Kind { return KindAssign }

// Kind implements Action
func (Unassign) Kind() Kind { return KindUnassign }

// Kind implements Action
func (Validate) Kind() Kind { return KindValidate }

// ContributionID implements Action
func (a Create) ContributionID() ID { return a.Contribution.ID }

// ContributionID implements Action
func (a Assign) ContributionID() ID { return a.ID }

// ContributionID implements Action
func (a Unassign) ContributionID() ID { return a.ID }

// ContributionID implements Action
func (a Validate) ContributionID() ID { return a.ID }

func (Create) sealed()   {}
func (Assign) sealed()   {}
func (Unassign) sealed() {}
func (Validate) sealed() {}
