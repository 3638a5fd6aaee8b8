package reviewer

import (
	"context"

	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// Compile-time check.
var _ negotiation.Reviewer = (*Static)(nil)

// Static is a reviewer that returns a fixed set of changes regardless of the
// plan. It stands in for a role whose real reviewer is unavailable and is the
// workhorse of engine tests.
type Static struct {
	base
	changes []negotiation.ProposedChange
	err     error
}

// NewStatic creates a reviewer that always returns copies of the given
// changes, re-attributed to the given role.
func NewStatic(kind negotiation.StakeholderKind, name string, changes []negotiation.ProposedChange) *Static {
	return &Static{
		base:    base{kind: kind, name: name},
		changes: changes,
	}
}

// NewFailing creates a reviewer that always fails with err. Useful for
// exercising the fallback path.
func NewFailing(kind negotiation.StakeholderKind, name string, err error) *Static {
	return &Static{
		base: base{kind: kind, name: name},
		err:  err,
	}
}

// Analyze returns the fixed change set, or the fixed error.
func (s *Static) Analyze(_ context.Context, _ *plan.Plan, _ negotiation.ReviewContext) ([]negotiation.ProposedChange, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]negotiation.ProposedChange, len(s.changes))
	for i, c := range s.changes {
		c.Stakeholder = s.kind
		c.Normalize()
		out[i] = c
	}
	return out, nil
}
