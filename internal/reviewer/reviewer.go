// Package reviewer provides the stakeholder reviewer panel: five
// deterministic, rule-based implementations of the negotiation.Reviewer
// contract, one per canonical stakeholder role, plus a static fixed-output
// variant and a remote JSON-RPC-backed variant. Which variant represents a
// role is decided at composition time.
package reviewer

import (
	"time"

	"github.com/chalkline/accord/internal/negotiation"
)

// base carries the identity shared by all local reviewers.
type base struct {
	kind negotiation.StakeholderKind
	name string
}

func (b base) Kind() negotiation.StakeholderKind { return b.kind }
func (b base) Name() string                      { return b.name }

// change assembles a normalized ProposedChange attributed to this reviewer.
func (b base) change(kind negotiation.ChangeKind, target, desc, justification string, priority int, feasibility float64) negotiation.ProposedChange {
	c := negotiation.ProposedChange{
		Stakeholder:     b.kind,
		Kind:            kind,
		TargetComponent: target,
		Description:     desc,
		Justification:   justification,
		Priority:        priority,
		Feasibility:     feasibility,
		CreatedAt:       time.Now(),
	}
	c.Normalize()
	return c
}
