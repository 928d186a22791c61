// Package lifecycle owns the complaint status state machine and the
// vote-driven priority recomputation.
package lifecycle

import (
	"fmt"

	"github.com/civicgrid/complaint-service/internal/errs"
	"github.com/civicgrid/complaint-service/internal/model"
)

// transitions lists the allowed next statuses per current status. Resolved
// and rejected are absorbing: nothing leaves them.
var transitions = map[model.ComplaintStatus][]model.ComplaintStatus{
	model.StatusNew:        {model.StatusInReview},
	model.StatusInReview:   {model.StatusAssigned},
	model.StatusAssigned:   {model.StatusInProgress},
	model.StatusInProgress: {model.StatusResolved, model.StatusRejected},
	model.StatusResolved:   {},
	model.StatusRejected:   {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to model.ComplaintStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status is absorbing.
func Terminal(s model.ComplaintStatus) bool {
	return s == model.StatusResolved || s == model.StatusRejected
}

// Validate checks a requested transition and returns ErrInvalidTransition
// (wrapped with both statuses) when the state machine rejects it.
func Validate(from, to model.ComplaintStatus) error {
	if !model.ValidStatus(to) {
		return fmt.Errorf("%w: unknown status %q", errs.ErrInvalidTransition, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidTransition, from, to)
	}
	return nil
}
