package contribution

import (
	perr "tally/internal/platform/errors"
)

// Apply runs one action against the current state and returns the next state.
// cur is nil when no contribution with the action's id exists yet.
// Transitions: Open -> Assigned (Assign), Assigned -> Open (Unassign),
// Assigned -> Completed (Validate). Completed accepts nothing.
// Violations are returned, never silently corrected
func Apply(cur *Contribution, act Action) (Contribution, error) {
	switch a := act.(type) {
	case Create:
		if cur != nil {
			return Contribution{}, perr.DuplicateKeyf("contribution %s already exists", a.Contribution.ID)
		}
		next := a.Contribution
		next.Status = StatusOpen
		next.Contributor = ""
		return next, nil

	case Assign:
		if cur == nil {
			return Contribution{}, perr.NotFoundf("contribution %s not found", a.ID)
		}
		if cur.Status != StatusOpen {
			return Contribution{}, illegal(cur.Status, act)
		}
		next := *cur
		next.Status = StatusAssigned
		next.Contributor = a.Contributor
		return next, nil

	case Unassign:
		if cur == nil {
			return Contribution{}, perr.NotFoundf("contribution %s not found", a.ID)
		}
		if cur.Status != StatusAssigned {
			return Contribution{}, illegal(cur.Status, act)
		}
		next := *cur
		next.Status = StatusOpen
		next.Contributor = ""
		return next, nil

	case Validate:
		if cur == nil {
			return Contribution{}, perr.NotFoundf("contribution %s not found", a.ID)
		}
		if cur.Status != StatusAssigned {
			return Contribution{}, illegal(cur.Status, act)
		}
		next := *cur
		next.Status = StatusCompleted
		return next, nil
	}

	// unreachable while Action stays sealed
	return Contribution{}, perr.Internalf("unhandled action kind %s", act.Kind())
}

func illegal(from Status, act Action) error {
	return perr.IllegalTransitionf("cannot %s contribution %s while %s", act.Kind(), act.ContributionID(), from)
}

// IsIllegalTransition reports whether err is a state machine violation
func IsIllegalTransition(err error) bool { return perr.IsCode(err, perr.ErrorCodeIllegalTransition) }

// IsAlreadyExists reports whether err is a duplicate create
func IsAlreadyExists(err error) bool { return perr.IsCode(err, perr.ErrorCodeDuplicateKey) }

// IsNotFound reports whether err refers to a missing contribution
func IsNotFound(err error) bool { return perr.IsCode(err, perr.ErrorCodeNotFound) }
