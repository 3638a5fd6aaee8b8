package remote

import (
	"github.com/chalkline/accord/internal/negotiation"
	"github.com/chalkline/accord/internal/plan"
)

// AnalyzeRequest carries the plan snapshot and review context for a
// review/analyze call.
type AnalyzeRequest struct {
	Plan            *plan.Plan `json:"plan"`
	TargetPositions []string   `json:"target_positions,omitempty"`
	Round           int        `json:"round"`
}

// AnalyzeResponse carries the suggestions produced by a remote reviewer.
type AnalyzeResponse struct {
	Suggestions []negotiation.ProposedChange `json:"suggestions"`
}

// ReviewerCard is the discovery document a remote reviewer serves at
// /.well-known/reviewer-card.json.
type ReviewerCard struct {
	Name        string                      `json:"name"`
	Role        negotiation.StakeholderKind `json:"role"`
	Description string                      `json:"description,omitempty"`
	Version     string                      `json:"version,omitempty"`
	Endpoint    string                      `json:"endpoint,omitempty"`
}
